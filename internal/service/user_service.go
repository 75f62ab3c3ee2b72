package service

import (
	"context"

	"amumal/internal/backend"
	"amumal/internal/middleware"
	"amumal/internal/models"
	"amumal/internal/session"
)

// UserService keeps the session's view of the account in step with the
// backend and applies profile mutations.
type UserService struct {
	api   *backend.Client
	store session.Store
	auth  *AuthService
}

func NewUserService(api *backend.Client, store session.Store, auth *AuthService) *UserService {
	return &UserService{api: api, store: store, auth: auth}
}

// Sync fetches the authoritative account record and merges it into the
// session. A rejected token is retried once after a refresh; if that also
// fails the session is cleared and the caller must log in again.
func (s *UserService) Sync(ctx context.Context, sid string, rec *models.SessionRecord) (*models.User, error) {
	user, err := s.api.Me(ctx, rec.AccessToken)
	if models.IsUnauthorized(err) && rec.RefreshToken != "" {
		middleware.Logger.InfoContext(ctx, "session sync rejected, refreshing token")
		rec, err = s.auth.Refresh(ctx, sid, rec)
		if err == nil {
			user, err = s.api.Me(ctx, rec.AccessToken)
		}
	}
	if err != nil {
		if models.IsUnauthorized(err) {
			if clearErr := s.store.Clear(ctx, sid); clearErr != nil {
				middleware.Logger.WarnContext(ctx, "failed to clear stale session", "error", clearErr)
			}
		}
		return nil, err
	}
	partial := map[string]any{
		"userId":   user.ID,
		"email":    user.Email,
		"nickname": user.Nickname,
		"role":     user.Role,
	}
	if user.ProfileImage != "" {
		partial["profileImage"] = user.ProfileImage
	}
	if err := s.store.Save(ctx, sid, partial); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// UpdateProfile changes nickname and optionally the avatar, then mirrors the
// result into the session so the header renders the new identity right away.
func (s *UserService) UpdateProfile(ctx context.Context, sid string, rec *models.SessionRecord, nickname, profileImage string) (*models.User, error) {
	user, err := s.api.UpdateProfile(ctx, rec.AccessToken, nickname, profileImage)
	if err != nil {
		return nil, err
	}
	partial := map[string]any{"nickname": user.Nickname}
	if user.ProfileImage != "" {
		partial["profileImage"] = user.ProfileImage
	} else if profileImage != "" {
		partial["profileImage"] = profileImage
	}
	if err := s.store.Save(ctx, sid, partial); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// UpdatePassword changes the account password. Tokens stay valid, so the
// session is untouched.
func (s *UserService) UpdatePassword(ctx context.Context, rec *models.SessionRecord, oldPassword, newPassword, newPasswordCheck string) error {
	return s.api.UpdatePassword(ctx, rec.AccessToken, oldPassword, newPassword, newPasswordCheck)
}

// DeleteAccount removes the account on the backend and drops the session.
func (s *UserService) DeleteAccount(ctx context.Context, sid string, rec *models.SessionRecord) error {
	if err := s.api.DeleteAccount(ctx, rec.AccessToken); err != nil {
		return err
	}
	return s.store.Clear(ctx, sid)
}
