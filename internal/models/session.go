// Package models contains data structures for the application's domain models.
package models

import "encoding/json"

// SessionRecord is the locally persisted representation of the currently
// authenticated user and their credentials. It mirrors whatever the login and
// profile endpoints last returned; the backend's user record stays
// authoritative and the two may disagree until the next sync.
type SessionRecord struct {
	UserID       int64  `json:"userId,omitempty"`
	Email        string `json:"email,omitempty"`
	Nickname     string `json:"nickname,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	Role         string `json:"role,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
	Flash        string `json:"flash,omitempty"`
}

// LoggedIn reports whether the record identifies an authenticated user.
func (r *SessionRecord) LoggedIn() bool {
	return r != nil && r.UserID != 0 && r.AccessToken != ""
}

// Fields converts the record into a partial-update map for merge saves.
// Zero-valued fields are dropped so they never clobber stored ones.
func (r *SessionRecord) Fields() map[string]any {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
