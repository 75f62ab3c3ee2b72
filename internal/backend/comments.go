package backend

import (
	"context"
	"fmt"

	"amumal/internal/models"
)

// commentPayload tolerates the comment field spellings across backend
// revisions, including the nested author object.
type commentPayload struct {
	CommentID    int64 `json:"comment_id"`
	CommentIDAlt int64 `json:"commentId"`
	ID           int64 `json:"id"`

	PostID    int64 `json:"post_id"`
	PostIDAlt int64 `json:"postId"`

	Content string `json:"content"`

	AuthorID    int64  `json:"author_id"`
	AuthorIDAlt int64  `json:"authorId"`
	AuthorName  string `json:"author_name"`
	AuthorAlt   string `json:"authorName"`

	Author *struct {
		ID       int64  `json:"id"`
		Nickname string `json:"nickname"`
	} `json:"author"`

	CreatedAt    string `json:"created_at"`
	CreatedAtAlt string `json:"createdAt"`
}

func (p commentPayload) normalize() models.Comment {
	authorID := firstInt64(p.AuthorID, p.AuthorIDAlt)
	authorName := coalesce(p.AuthorName, p.AuthorAlt)
	if p.Author != nil {
		if authorID == 0 {
			authorID = p.Author.ID
		}
		authorName = coalesce(authorName, p.Author.Nickname)
	}
	return models.Comment{
		ID:         firstInt64(p.CommentID, p.CommentIDAlt, p.ID),
		PostID:     firstInt64(p.PostID, p.PostIDAlt),
		Content:    p.Content,
		AuthorID:   authorID,
		AuthorName: authorName,
		CreatedAt:  coalesce(p.CreatedAt, p.CreatedAtAlt),
	}
}

// ListComments fetches all comments of a post.
func (c *Client) ListComments(ctx context.Context, token string, postID int64) ([]models.Comment, error) {
	var payload []commentPayload
	if err := c.get(ctx, fmt.Sprintf("/api/v1/posts/%d/comments", postID), token, &payload); err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0, len(payload))
	for _, item := range payload {
		comments = append(comments, item.normalize())
	}
	return comments, nil
}

// CreateComment adds a comment to a post.
func (c *Client) CreateComment(ctx context.Context, token string, postID int64, content string) error {
	body := map[string]any{"content": content}
	return c.post(ctx, fmt.Sprintf("/api/v1/posts/%d/comments", postID), token, body, nil)
}

// UpdateComment edits a comment in place.
func (c *Client) UpdateComment(ctx context.Context, token string, postID, commentID int64, content string) error {
	body := map[string]any{"content": content}
	return c.patch(ctx, fmt.Sprintf("/api/v1/posts/%d/comments/%d", postID, commentID), token, body, nil)
}

// RemoveComment deletes a comment.
func (c *Client) RemoveComment(ctx context.Context, token string, postID, commentID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/v1/posts/%d/comments/%d", postID, commentID), token)
}
