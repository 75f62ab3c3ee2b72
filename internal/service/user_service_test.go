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

func TestSyncRefreshesRejectedToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-fresh" {
			writeEnvelope(w, http.StatusUnauthorized, `{"message": "token expired"}`)
			return
		}
		writeEnvelope(w, http.StatusOK, `{
			"success": true,
			"data": {"userId": 7, "email": "dora@example.com", "nickname": "새도라", "role": "USER"}
		}`)
	})
	mux.HandleFunc("POST /api/v1/users/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{
			"success": true,
			"data": {"access_token": "at-fresh", "refresh_token": "rt-fresh"}
		}`)
	})
	_, api := newFakeBackend(t, mux)

	store := session.NewMemoryStore()
	auth := NewAuthService(api, store)
	users := NewUserService(api, store, auth)

	rec := &models.SessionRecord{UserID: 7, AccessToken: "at-stale", RefreshToken: "rt-1"}
	require.NoError(t, store.Save(context.Background(), "sid-1", rec.Fields()))

	user, err := users.Sync(context.Background(), "sid-1", rec)
	require.NoError(t, err)
	assert.Equal(t, "새도라", user.Nickname)

	stored, err := store.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "at-fresh", stored.AccessToken)
	assert.Equal(t, "새도라", stored.Nickname)
}

func TestSyncClearsSessionWhenRefreshFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, `{"message": "token expired"}`)
	})
	mux.HandleFunc("POST /api/v1/users/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, `{"message": "refresh token expired"}`)
	})
	_, api := newFakeBackend(t, mux)

	store := session.NewMemoryStore()
	auth := NewAuthService(api, store)
	users := NewUserService(api, store, auth)

	rec := &models.SessionRecord{UserID: 7, AccessToken: "at-stale", RefreshToken: "rt-stale"}
	require.NoError(t, store.Save(context.Background(), "sid-1", rec.Fields()))

	_, err := users.Sync(context.Background(), "sid-1", rec)
	require.Error(t, err)
	assert.True(t, models.IsUnauthorized(err))

	stored, err := store.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Nil(t, stored, "a dead session must be cleared")
}

func TestUpdateProfileMirrorsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/v1/users/profile", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{
			"success": true,
			"data": {"userId": 7, "nickname": "도라2", "profileImage": "data:image/png;base64,BBBB"}
		}`)
	})
	_, api := newFakeBackend(t, mux)

	store := session.NewMemoryStore()
	auth := NewAuthService(api, store)
	users := NewUserService(api, store, auth)

	rec := &models.SessionRecord{UserID: 7, Nickname: "도라", AccessToken: "at-1"}
	require.NoError(t, store.Save(context.Background(), "sid-1", rec.Fields()))

	user, err := users.UpdateProfile(context.Background(), "sid-1", rec, "도라2", "")
	require.NoError(t, err)
	assert.Equal(t, "도라2", user.Nickname)

	stored, err := store.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "도라2", stored.Nickname)
	assert.Equal(t, "data:image/png;base64,BBBB", stored.ProfileImage)
	assert.Equal(t, "at-1", stored.AccessToken, "tokens survive a profile update")
}

func TestDeleteAccountClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/users", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, `{"success": true}`)
	})
	_, api := newFakeBackend(t, mux)

	store := session.NewMemoryStore()
	auth := NewAuthService(api, store)
	users := NewUserService(api, store, auth)

	rec := &models.SessionRecord{UserID: 7, AccessToken: "at-1"}
	require.NoError(t, store.Save(context.Background(), "sid-1", rec.Fields()))

	require.NoError(t, users.DeleteAccount(context.Background(), "sid-1", rec))

	stored, err := store.Load(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}
