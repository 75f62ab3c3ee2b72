package models

// Comment mirrors a server-owned comment scoped to a parent post.
type Comment struct {
	ID         int64  `json:"commentId"`
	PostID     int64  `json:"postId,omitempty"`
	Content    string `json:"content"`
	AuthorID   int64  `json:"authorId,omitempty"`
	AuthorName string `json:"authorName"`
	CreatedAt  string `json:"createdAt,omitempty"`
}
