package service

import (
	"context"
	"strings"

	"amumal/internal/backend"
	"amumal/internal/models"
)

// CommentService covers comment listing and mutations under a post.
type CommentService struct {
	api *backend.Client
}

func NewCommentService(api *backend.Client) *CommentService {
	return &CommentService{api: api}
}

func (s *CommentService) List(ctx context.Context, token string, postID int64) ([]models.Comment, error) {
	return s.api.ListComments(ctx, token, postID)
}

// Create adds a comment. Blank content fails locally.
func (s *CommentService) Create(ctx context.Context, token string, postID int64, content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("댓글 내용을 입력해주세요.")
	}
	return s.api.CreateComment(ctx, token, postID, content)
}

// Update rewrites a comment's content. Blank content fails locally.
func (s *CommentService) Update(ctx context.Context, token string, postID, commentID int64, content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("댓글 내용을 입력해주세요.")
	}
	return s.api.UpdateComment(ctx, token, postID, commentID, content)
}

func (s *CommentService) Remove(ctx context.Context, token string, postID, commentID int64) error {
	return s.api.RemoveComment(ctx, token, postID, commentID)
}
