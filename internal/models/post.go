package models

// Post mirrors a server-owned post. The client never owns authoritative
// state; counts are adjusted optimistically on like/unlike and reverted when
// the backend rejects the call.
type Post struct {
	ID                 int64  `json:"postId"`
	Title              string `json:"title"`
	Content            string `json:"content,omitempty"`
	ImageURL           string `json:"imageUrl,omitempty"`
	AuthorID           int64  `json:"authorId,omitempty"`
	AuthorName         string `json:"authorName"`
	AuthorProfileImage string `json:"authorProfileImage,omitempty"`
	Likes              int    `json:"likes"`
	Views              int    `json:"views"`
	CommentCount       int    `json:"commentCount"`
	CreatedAt          string `json:"createdAt,omitempty"`
	// Liked is viewer-relative and only meaningful when the detail was
	// fetched with a viewer identity.
	Liked bool `json:"liked"`
}

// PostPage is one page of the board listing.
type PostPage struct {
	Items      []Post `json:"items"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalCount int64  `json:"totalCount"`
}
