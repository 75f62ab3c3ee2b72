package backend

import (
	"context"
	"time"

	"amumal/internal/models"
)

// userPayload tolerates every field spelling the backend has shipped for a
// user. normalize is the single place these variants collapse into the
// canonical models.User.
type userPayload struct {
	UserID    int64 `json:"user_id"`
	UserIDAlt int64 `json:"userId"`
	ID        int64 `json:"id"`

	Email    string `json:"email"`
	Nickname string `json:"nickname"`

	ProfileImage    string `json:"profile_image"`
	ProfileImageAlt string `json:"profileImage"`

	Role    string `json:"role"`
	RoleAlt string `json:"user_role"`

	CreatedAt    string `json:"created_at"`
	CreatedAtAlt string `json:"createdAt"`
	UpdatedAt    string `json:"updated_at"`
	UpdatedAtAlt string `json:"updatedAt"`
}

func (p userPayload) normalize() models.User {
	id := p.UserID
	if id == 0 {
		id = p.UserIDAlt
	}
	if id == 0 {
		id = p.ID
	}
	return models.User{
		ID:           id,
		Email:        p.Email,
		Nickname:     p.Nickname,
		ProfileImage: coalesce(p.ProfileImage, p.ProfileImageAlt),
		Role:         coalesce(p.Role, p.RoleAlt),
		CreatedAt:    parseTimestamp(coalesce(p.CreatedAt, p.CreatedAtAlt)),
		UpdatedAt:    parseTimestamp(coalesce(p.UpdatedAt, p.UpdatedAtAlt)),
	}
}

// parseTimestamp reads the backend's timestamp formats; unparsable values
// come back zero rather than failing the whole payload.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Me fetches the authenticated user's identity.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var payload userPayload
	if err := c.get(ctx, "/api/v1/users/me", token, &payload); err != nil {
		return nil, err
	}
	user := payload.normalize()
	return &user, nil
}

// UpdateProfile changes the nickname and/or avatar. profileImage is an inline
// data URL; empty string clears nothing and sends null.
func (c *Client) UpdateProfile(ctx context.Context, token, nickname, profileImage string) (*models.User, error) {
	body := map[string]any{
		"nickname":     nickname,
		"profileImage": nilIfEmpty(profileImage),
	}
	var payload userPayload
	if err := c.patch(ctx, "/api/v1/users/profile", token, body, &payload); err != nil {
		return nil, err
	}
	user := payload.normalize()
	return &user, nil
}

// UpdatePassword changes the account password.
func (c *Client) UpdatePassword(ctx context.Context, token, oldPassword, newPassword, newPasswordCheck string) error {
	body := map[string]any{
		"oldPassword":      oldPassword,
		"newPassword":      newPassword,
		"newPasswordCheck": newPasswordCheck,
	}
	return c.patch(ctx, "/api/v1/users/password", token, body, nil)
}

// DeleteAccount removes the authenticated user's account.
func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	return c.delete(ctx, "/api/v1/users", token)
}
