// Package service implements the page-facing business logic on top of the
// backend client and the session store.
package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"amumal/internal/backend"
	"amumal/internal/middleware"
	"amumal/internal/models"
	"amumal/internal/session"
)

// refreshLeeway starts a refresh slightly before the access token actually
// expires so in-flight requests do not race the deadline.
const refreshLeeway = 30 * time.Second

// AuthService owns login, signup, logout and token refresh.
type AuthService struct {
	api   *backend.Client
	store session.Store
}

func NewAuthService(api *backend.Client, store session.Store) *AuthService {
	return &AuthService{api: api, store: store}
}

// Login authenticates against the backend and persists the resulting
// identity and token pair into the session keyed by sid.
func (s *AuthService) Login(ctx context.Context, sid, email, password string, remember bool) (*models.SessionRecord, error) {
	res, err := s.api.Login(ctx, email, password, remember)
	if err != nil {
		return nil, err
	}
	rec := &models.SessionRecord{
		UserID:       res.User.ID,
		Email:        res.User.Email,
		Nickname:     res.User.Nickname,
		ProfileImage: res.User.ProfileImage,
		Role:         res.User.Role,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		TokenType:    res.TokenType,
		ExpiresIn:    res.ExpiresIn,
	}
	if err := s.store.Save(ctx, sid, rec.Fields()); err != nil {
		return nil, models.NewInternalError(err)
	}
	return rec, nil
}

// Signup registers a new account. The caller logs in separately afterwards.
func (s *AuthService) Signup(ctx context.Context, in backend.SignupInput) error {
	return s.api.Signup(ctx, in)
}

// Logout drops the local session. No backend call is made; the tokens are
// simply forgotten.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.store.Clear(ctx, sid)
}

// Current loads the session record for sid. A missing or corrupt session
// yields (nil, nil).
func (s *AuthService) Current(ctx context.Context, sid string) (*models.SessionRecord, error) {
	return s.store.Load(ctx, sid)
}

// Refresh exchanges the stored refresh token for a new pair and merges the
// result into the session. Without a stored refresh token this fails locally
// without touching the backend.
func (s *AuthService) Refresh(ctx context.Context, sid string, rec *models.SessionRecord) (*models.SessionRecord, error) {
	if rec == nil || rec.RefreshToken == "" {
		return nil, models.NewUnauthorizedError("로그인이 필요합니다.")
	}
	res, err := s.api.Refresh(ctx, rec.RefreshToken)
	if err != nil {
		return nil, err
	}
	rec.AccessToken = res.AccessToken
	rec.RefreshToken = res.RefreshToken
	rec.TokenType = res.TokenType
	rec.ExpiresIn = res.ExpiresIn
	partial := map[string]any{
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
		"tokenType":    res.TokenType,
		"expiresIn":    res.ExpiresIn,
	}
	if err := s.store.Save(ctx, sid, partial); err != nil {
		return nil, models.NewInternalError(err)
	}
	return rec, nil
}

// EnsureFresh refreshes the access token when its exp claim is past or about
// to pass. Tokens without a readable exp claim are left alone until the
// backend rejects them.
func (s *AuthService) EnsureFresh(ctx context.Context, sid string, rec *models.SessionRecord) (*models.SessionRecord, error) {
	if !rec.LoggedIn() {
		return rec, nil
	}
	if !tokenExpiring(rec.AccessToken) {
		return rec, nil
	}
	middleware.Logger.DebugContext(ctx, "access token near expiry, refreshing")
	return s.Refresh(ctx, sid, rec)
}

// tokenExpiring decodes the JWT without verifying its signature; the session
// layer only needs the exp claim, verification stays the backend's job.
func tokenExpiring(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < refreshLeeway
}
