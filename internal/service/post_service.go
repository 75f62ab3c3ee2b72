package service

import (
	"context"
	"sync"

	"amumal/internal/backend"
	"amumal/internal/models"
)

// PostService covers the board list, post detail and post mutations.
type PostService struct {
	api *backend.Client
}

func NewPostService(api *backend.Client) *PostService {
	return &PostService{api: api}
}

// List fetches one board page, newest-first. Pages are zero-based.
func (s *PostService) List(ctx context.Context, token string, page, limit int) (*models.PostPage, error) {
	return s.api.ListPosts(ctx, token, page, limit, "DATE")
}

// Detail loads the post and its comments concurrently. The post fetch counts
// a view on the backend; the comment fetch never does.
func (s *PostService) Detail(ctx context.Context, token string, postID int64, viewerID *int64) (*models.Post, []models.Comment, error) {
	var (
		wg       sync.WaitGroup
		post     *models.Post
		comments []models.Comment
		postErr  error
		cmtErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		post, postErr = s.api.GetPost(ctx, token, postID, viewerID)
	}()
	go func() {
		defer wg.Done()
		comments, cmtErr = s.api.ListComments(ctx, token, postID)
	}()
	wg.Wait()
	if postErr != nil {
		return nil, nil, postErr
	}
	if cmtErr != nil {
		return nil, nil, cmtErr
	}
	return post, comments, nil
}

// Create validates and submits a new post, returning its id.
func (s *PostService) Create(ctx context.Context, token string, in backend.PostInput) (int64, error) {
	return s.api.CreatePost(ctx, token, in)
}

// Update rewrites an existing post.
func (s *PostService) Update(ctx context.Context, token string, postID int64, in backend.PostInput) error {
	return s.api.UpdatePost(ctx, token, postID, in)
}

// Remove deletes a post.
func (s *PostService) Remove(ctx context.Context, token string, postID int64) error {
	return s.api.RemovePost(ctx, token, postID)
}

// ToggleLike flips the viewer's like on the post. The passed post is mutated
// up front so the page can render the new count immediately; a failed backend
// call restores the previous liked state and count before returning.
func (s *PostService) ToggleLike(ctx context.Context, token string, post *models.Post) error {
	wasLiked := post.Liked
	if wasLiked {
		post.Liked = false
		post.Likes--
	} else {
		post.Liked = true
		post.Likes++
	}

	var err error
	if wasLiked {
		err = s.api.UnlikePost(ctx, token, post.ID)
	} else {
		err = s.api.LikePost(ctx, token, post.ID)
	}
	if err != nil {
		post.Liked = wasLiked
		if wasLiked {
			post.Likes++
		} else {
			post.Likes--
		}
	}
	return err
}

// Search runs the filtered board query.
func (s *PostService) Search(ctx context.Context, token string, in backend.SearchInput) (*models.PostPage, error) {
	return s.api.SearchPosts(ctx, token, in)
}

// ResetViews zeroes view counters below the threshold. Admin only; the
// backend enforces the role.
func (s *PostService) ResetViews(ctx context.Context, token string, threshold int) error {
	return s.api.ResetViews(ctx, token, threshold)
}
