package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amumal/internal/models"
	"amumal/internal/session"
)

func TestLoginPersistsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/users/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{
			"success": true,
			"data": {
				"userId": 7,
				"email": "dora@example.com",
				"nickname": "도라",
				"profileImage": "data:image/png;base64,AAAA",
				"access_token": "at-1",
				"refresh_token": "rt-1",
				"token_type": "Bearer",
				"expires_in": 3600
			}
		}`)
	})
	_, api := newFakeBackend(t, mux)

	store := session.NewMemoryStore()
	auth := NewAuthService(api, store)

	rec, err := auth.Login(context.Background(), "sid-1", "dora@example.com", "password1", false)
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.UserID)
	assert.Equal(t, "도라", rec.Nickname)

	stored, err := store.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.LoggedIn())
	assert.Equal(t, "at-1", stored.AccessToken)
	assert.Equal(t, "rt-1", stored.RefreshToken)
	assert.Equal(t, "dora@example.com", stored.Email)
}

func TestLoginBackendRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/users/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, `{"message": "invalid credentials"}`)
	})
	_, api := newFakeBackend(t, mux)

	store := session.NewMemoryStore()
	auth := NewAuthService(api, store)

	_, err := auth.Login(context.Background(), "sid-1", "dora@example.com", "wrong", false)
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", models.ErrorMessage(err))
	assert.True(t, models.IsUnauthorized(err))

	stored, err := store.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRefreshWithoutStoredTokenFailsLocally(t *testing.T) {
	fb, api := newFakeBackend(t, http.NewServeMux())

	store := session.NewMemoryStore()
	auth := NewAuthService(api, store)

	_, err := auth.Refresh(context.Background(), "sid-1", &models.SessionRecord{UserID: 7})
	require.Error(t, err)
	assert.True(t, models.IsUnauthorized(err))
	assert.Zero(t, fb.hits.Load(), "refresh without a token must not call the backend")
}

func TestRefreshMergesNewTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/users/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{
			"success": true,
			"data": {"access_token": "at-2", "refresh_token": "rt-2", "expires_in": 3600}
		}`)
	})
	_, api := newFakeBackend(t, mux)

	store := session.NewMemoryStore()
	auth := NewAuthService(api, store)

	rec := &models.SessionRecord{UserID: 7, Nickname: "도라", AccessToken: "at-1", RefreshToken: "rt-1"}
	require.NoError(t, store.Save(context.Background(), "sid-1", rec.Fields()))

	updated, err := auth.Refresh(context.Background(), "sid-1", rec)
	require.NoError(t, err)
	assert.Equal(t, "at-2", updated.AccessToken)

	stored, err := store.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "at-2", stored.AccessToken)
	assert.Equal(t, "rt-2", stored.RefreshToken)
	assert.Equal(t, "도라", stored.Nickname, "merge save must keep unrelated fields")
}

func TestLogoutClearsSession(t *testing.T) {
	_, api := newFakeBackend(t, http.NewServeMux())

	store := session.NewMemoryStore()
	auth := NewAuthService(api, store)

	rec := &models.SessionRecord{UserID: 7, AccessToken: "at-1"}
	require.NoError(t, store.Save(context.Background(), "sid-1", rec.Fields()))

	require.NoError(t, auth.Logout(context.Background(), "sid-1"))

	stored, err := store.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}
