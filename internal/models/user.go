package models

import "time"

// User is the canonical client-side shape of a board user. The backend has
// shipped both snake_case and camelCase field names across revisions; the
// users resource client normalizes every variant into this struct once, so
// nothing above it ever reads raw payload keys.
type User struct {
	ID           int64     `json:"userId"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	ProfileImage string    `json:"profileImage,omitempty"`
	Role         string    `json:"role,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}
