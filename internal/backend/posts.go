package backend

import (
	"context"
	"fmt"

	"amumal/internal/models"
)

// postPayload tolerates the field spellings the backend has shipped for
// posts, including the nested author object some revisions return.
// normalizePost is the single collapse point into models.Post.
type postPayload struct {
	PostID    int64 `json:"post_id"`
	PostIDAlt int64 `json:"postId"`
	ID        int64 `json:"id"`

	Title   string `json:"title"`
	Content string `json:"content"`

	ImageURL    string `json:"image_url"`
	ImageURLAlt string `json:"imageUrl"`

	AuthorID     int64  `json:"author_id"`
	AuthorIDAlt  int64  `json:"authorId"`
	AuthorName   string `json:"author_name"`
	AuthorAlt    string `json:"authorName"`
	AuthorImg    string `json:"author_profile_image"`
	AuthorImgAlt string `json:"authorProfileImage"`

	Author *struct {
		ID              int64  `json:"id"`
		Nickname        string `json:"nickname"`
		ProfileImage    string `json:"profile_image"`
		ProfileImageAlt string `json:"profileImage"`
	} `json:"author"`

	Likes int `json:"likes"`
	Views int `json:"views"`

	CommentCount     int `json:"comment_count"`
	CommentsCount    int `json:"comments_count"`
	CommentCountAlt  int `json:"commentCount"`
	CommentsCountAlt int `json:"commentsCount"`

	CreatedAt    string `json:"created_at"`
	CreatedAtAlt string `json:"createdAt"`

	Liked         *bool `json:"liked"`
	LikedByViewer *bool `json:"likedByViewer"`
	LikedByMe     *bool `json:"likedByMe"`
}

func (p postPayload) normalize() models.Post {
	id := firstInt64(p.PostID, p.PostIDAlt, p.ID)

	authorID := firstInt64(p.AuthorID, p.AuthorIDAlt)
	authorName := coalesce(p.AuthorName, p.AuthorAlt)
	authorImg := coalesce(p.AuthorImg, p.AuthorImgAlt)
	if p.Author != nil {
		if authorID == 0 {
			authorID = p.Author.ID
		}
		authorName = coalesce(authorName, p.Author.Nickname)
		authorImg = coalesce(authorImg, p.Author.ProfileImage, p.Author.ProfileImageAlt)
	}

	liked := false
	for _, v := range []*bool{p.Liked, p.LikedByViewer, p.LikedByMe} {
		if v != nil {
			liked = *v
			break
		}
	}

	return models.Post{
		ID:                 id,
		Title:              p.Title,
		Content:            p.Content,
		ImageURL:           coalesce(p.ImageURL, p.ImageURLAlt),
		AuthorID:           authorID,
		AuthorName:         authorName,
		AuthorProfileImage: authorImg,
		Likes:              p.Likes,
		Views:              p.Views,
		CommentCount:       firstInt(p.CommentCount, p.CommentsCount, p.CommentCountAlt, p.CommentsCountAlt),
		CreatedAt:          coalesce(p.CreatedAt, p.CreatedAtAlt),
		Liked:              liked,
	}
}

type postPagePayload struct {
	Items      []postPayload `json:"items"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalCount int64         `json:"total_count"`
}

func (p postPagePayload) normalize() *models.PostPage {
	page := &models.PostPage{
		Items:      make([]models.Post, 0, len(p.Items)),
		Page:       p.Page,
		Limit:      p.Limit,
		TotalCount: p.TotalCount,
	}
	for _, item := range p.Items {
		page.Items = append(page.Items, item.normalize())
	}
	return page
}

// idPayload is the creation response; the backend has used both id spellings.
type idPayload struct {
	ID     int64 `json:"id"`
	PostID int64 `json:"post_id"`
}

// PostInput carries the create/update form fields. ImageURL may be an inline
// data URL.
type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

func (in PostInput) body() map[string]any {
	return map[string]any{
		"title":     in.Title,
		"content":   in.Content,
		"image_url": nilIfEmpty(in.ImageURL),
	}
}

// ListPosts fetches one page of the board, newest-first by default.
func (c *Client) ListPosts(ctx context.Context, token string, page, limit int, sort string) (*models.PostPage, error) {
	path := withQuery("/api/v1/posts", Params{
		{Key: "page", Value: page},
		{Key: "limit", Value: limit},
		{Key: "sort", Value: sort},
	})
	var payload postPagePayload
	if err := c.get(ctx, path, token, &payload); err != nil {
		return nil, err
	}
	return payload.normalize(), nil
}

// GetPost fetches a post's detail. A non-nil viewerID asks the backend for
// viewer-relative like state.
func (c *Client) GetPost(ctx context.Context, token string, postID int64, viewerID *int64) (*models.Post, error) {
	params := Params{{Key: "viewerId", Value: nil}}
	if viewerID != nil {
		params[0].Value = *viewerID
	}
	path := withQuery(fmt.Sprintf("/api/v1/posts/%d", postID), params)
	var payload postPayload
	if err := c.get(ctx, path, token, &payload); err != nil {
		return nil, err
	}
	post := payload.normalize()
	return &post, nil
}

// CreatePost submits a new post and returns its ID.
func (c *Client) CreatePost(ctx context.Context, token string, in PostInput) (int64, error) {
	var payload idPayload
	if err := c.post(ctx, "/api/v1/posts", token, in.body(), &payload); err != nil {
		return 0, err
	}
	return firstInt64(payload.ID, payload.PostID), nil
}

// UpdatePost edits an existing post.
func (c *Client) UpdatePost(ctx context.Context, token string, postID int64, in PostInput) error {
	return c.patch(ctx, fmt.Sprintf("/api/v1/posts/%d", postID), token, in.body(), nil)
}

// RemovePost deletes a post.
func (c *Client) RemovePost(ctx context.Context, token string, postID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/v1/posts/%d", postID), token)
}

// LikePost records the viewer's like.
func (c *Client) LikePost(ctx context.Context, token string, postID int64) error {
	return c.post(ctx, fmt.Sprintf("/api/v1/posts/%d/like", postID), token, struct{}{}, nil)
}

// UnlikePost removes the viewer's like.
func (c *Client) UnlikePost(ctx context.Context, token string, postID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/v1/posts/%d/like", postID), token)
}

// SearchInput narrows the querydsl post search. Nil pointers leave their
// parameter out of the query entirely.
type SearchInput struct {
	Keyword  string
	AuthorID *int64
	MinLikes *int
	MinViews *int
	Page     int
	Limit    int
	Sort     string
}

// SearchPosts runs the keyword/author/metric search.
func (c *Client) SearchPosts(ctx context.Context, token string, in SearchInput) (*models.PostPage, error) {
	params := Params{
		{Key: "keyword", Value: nilIfEmpty(in.Keyword)},
		{Key: "authorId", Value: nil},
		{Key: "minLikes", Value: nil},
		{Key: "minViews", Value: nil},
		{Key: "page", Value: in.Page},
		{Key: "limit", Value: in.Limit},
		{Key: "sort", Value: in.Sort},
	}
	if in.AuthorID != nil {
		params[1].Value = *in.AuthorID
	}
	if in.MinLikes != nil {
		params[2].Value = *in.MinLikes
	}
	if in.MinViews != nil {
		params[3].Value = *in.MinViews
	}
	var payload postPagePayload
	if err := c.get(ctx, withQuery("/api/querydsl/posts", params), token, &payload); err != nil {
		return nil, err
	}
	return payload.normalize(), nil
}

// ResetViews is the administrative bulk view-count reset for posts above the
// given threshold.
func (c *Client) ResetViews(ctx context.Context, token string, threshold int) error {
	path := withQuery("/api/querydsl/posts/views/reset", Params{
		{Key: "threshold", Value: threshold},
	})
	return c.post(ctx, path, token, struct{}{}, nil)
}

func firstInt64(values ...int64) int64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
