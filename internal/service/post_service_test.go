package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amumal/internal/models"
)

func TestDetailLoadsPostAndComments(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/posts/5", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("viewerId"))
		writeEnvelope(w, http.StatusOK, `{
			"success": true,
			"data": {
				"post_id": 5,
				"title": "첫 글",
				"content": "본문",
				"author": {"id": 7, "nickname": "도라"},
				"likes": 3,
				"views": 12,
				"comment_count": 2,
				"liked": true
			}
		}`)
	})
	mux.HandleFunc("GET /api/v1/posts/5/comments", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{
			"success": true,
			"data": [
				{"comment_id": 1, "post_id": 5, "content": "첫 댓글", "author": {"id": 8, "nickname": "무"}},
				{"comment_id": 2, "post_id": 5, "content": "둘째 댓글", "author": {"id": 7, "nickname": "도라"}}
			]
		}`)
	})
	_, api := newFakeBackend(t, mux)
	posts := NewPostService(api)

	viewer := int64(2)
	post, comments, err := posts.Detail(context.Background(), "token", 5, &viewer)
	require.NoError(t, err)
	assert.Equal(t, int64(5), post.ID)
	assert.Equal(t, "도라", post.AuthorName)
	assert.True(t, post.Liked)
	require.Len(t, comments, 2)
	assert.Equal(t, "첫 댓글", comments[0].Content)
}

func TestToggleLikeAppliesOptimistically(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/posts/5/like", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{"success": true}`)
	})
	_, api := newFakeBackend(t, mux)
	posts := NewPostService(api)

	post := &models.Post{ID: 5, Likes: 3, Liked: false}
	require.NoError(t, posts.ToggleLike(context.Background(), "token", post))
	assert.True(t, post.Liked)
	assert.Equal(t, 4, post.Likes)
}

func TestToggleLikeRevertsOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/posts/5/like", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, `{"message": "잠시 후 다시 시도해주세요."}`)
	})
	_, api := newFakeBackend(t, mux)
	posts := NewPostService(api)

	post := &models.Post{ID: 5, Likes: 3, Liked: false}
	err := posts.ToggleLike(context.Background(), "token", post)
	require.Error(t, err)
	assert.False(t, post.Liked, "failed toggle must restore liked state")
	assert.Equal(t, 3, post.Likes, "failed toggle must restore the count")
}

func TestToggleLikeUnlikes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/posts/5/like", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{"success": true}`)
	})
	_, api := newFakeBackend(t, mux)
	posts := NewPostService(api)

	post := &models.Post{ID: 5, Likes: 3, Liked: true}
	require.NoError(t, posts.ToggleLike(context.Background(), "token", post))
	assert.False(t, post.Liked)
	assert.Equal(t, 2, post.Likes)
}

func TestListPassesPaging(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/posts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		writeEnvelope(w, http.StatusOK, `{
			"success": true,
			"data": {"items": [{"post_id": 9, "title": "글"}], "page": 2, "limit": 10, "total_count": 21}
		}`)
	})
	_, api := newFakeBackend(t, mux)
	posts := NewPostService(api)

	page, err := posts.List(context.Background(), "token", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(21), page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(9), page.Items[0].ID)
}
