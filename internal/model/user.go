// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a VoIP user account.
//
// Username and PasswordHash travel as a pair, and every create operation
// provisions both. The store still maps an empty Username to NULL so the
// UNIQUE constraint skips such rows, but no API path produces them. When
// Username is set it is unique across all accounts, as is Extension; both
// are enforced by UNIQUE constraints in the store.
//
// PasswordHash carries the bcrypt digest of the login credential. It is tagged
// `json:"-"` so it can never leak through a JSON response, no matter which
// handler serializes the struct. Outward-facing responses use Summary anyway,
// which doesn't have the field at all.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Name         string    `json:"name"      db:"name"`      // Display name, e.g. "John Doe"
	Extension    string    `json:"extension" db:"extension"` // 4-6 digit dial extension
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// UserSummary is the outward-facing shape of an account. It is what every
// API endpoint returns — a User with the credential material stripped.
type UserSummary struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	Name      string    `json:"name"`
	Extension string    `json:"extension"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary converts a User to its outward-facing representation.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Extension: u.Extension,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
