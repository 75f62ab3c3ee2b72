package backend

import (
	"context"

	"amumal/internal/models"
)

// SignupInput carries the signup form fields. ProfileImage is an optional
// inline data URL.
type SignupInput struct {
	Email         string
	Password      string
	PasswordCheck string
	Nickname      string
	ProfileImage  string
}

// Signup registers a new account. Client field names are mapped to the
// server's DTO here and nowhere else.
func (c *Client) Signup(ctx context.Context, in SignupInput) error {
	body := map[string]any{
		"email":          in.Email,
		"password":       in.Password,
		"password_check": in.PasswordCheck,
		"nickname":       in.Nickname,
		"profileImage":   nilIfEmpty(in.ProfileImage),
		"userRole":       nil,
	}
	return c.post(ctx, "/api/v1/users", "", body, nil)
}

// loginPayload tolerates both token field spellings the backend has shipped.
type loginPayload struct {
	userPayload
	AccessToken     string `json:"access_token"`
	AccessTokenAlt  string `json:"accessToken"`
	RefreshToken    string `json:"refresh_token"`
	RefreshTokenAlt string `json:"refreshToken"`
	TokenType       string `json:"token_type"`
	TokenTypeAlt    string `json:"tokenType"`
	ExpiresIn       int64  `json:"expires_in"`
	ExpiresInAlt    int64  `json:"expiresIn"`
}

// LoginResult is the normalized outcome of a successful login.
type LoginResult struct {
	User         models.User
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
}

// Login authenticates with the backend and returns the issued credentials
// together with the user's identity.
func (c *Client) Login(ctx context.Context, email, password string, remember bool) (*LoginResult, error) {
	body := map[string]any{
		"email":       email,
		"password":    password,
		"remember_me": remember,
	}
	var payload loginPayload
	if err := c.post(ctx, "/api/v1/users/login", "", body, &payload); err != nil {
		return nil, err
	}
	return &LoginResult{
		User:         payload.userPayload.normalize(),
		AccessToken:  coalesce(payload.AccessToken, payload.AccessTokenAlt),
		RefreshToken: coalesce(payload.RefreshToken, payload.RefreshTokenAlt),
		TokenType:    coalesce(payload.TokenType, payload.TokenTypeAlt, "Bearer"),
		ExpiresIn:    coalesceInt64(payload.ExpiresIn, payload.ExpiresInAlt),
	}, nil
}

// RefreshResult is a freshly issued token pair.
type RefreshResult struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
}

// Refresh exchanges a refresh token for a new access/refresh pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	body := map[string]any{
		"refresh_token": refreshToken,
	}
	var payload loginPayload
	if err := c.post(ctx, "/api/v1/users/refresh", "", body, &payload); err != nil {
		return nil, err
	}
	return &RefreshResult{
		AccessToken:  coalesce(payload.AccessToken, payload.AccessTokenAlt),
		RefreshToken: coalesce(payload.RefreshToken, payload.RefreshTokenAlt, refreshToken),
		TokenType:    coalesce(payload.TokenType, payload.TokenTypeAlt, "Bearer"),
		ExpiresIn:    coalesceInt64(payload.ExpiresIn, payload.ExpiresInAlt),
	}, nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func coalesceInt64(values ...int64) int64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
