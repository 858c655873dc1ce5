// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Authentication is email/password: the email is the login identifier and is
// stored normalized (trimmed, lower-cased) with a UNIQUE constraint, so one
// address maps to exactly one account. We generate our own string ID (xid)
// rather than using the email as the key — emails are user-visible and we
// never want to leak them through foreign keys or URLs.
//
// WHY PasswordHash WITH json:"-"?
// The bcrypt hash must never appear in an API response, no matter which
// handler encodes the struct. The "-" tag makes the JSON encoder skip the
// field entirely, so the safety doesn't depend on every handler remembering
// to build a trimmed-down view.
type User struct {
	ID           string    `json:"id"         db:"id"`
	Email        string    `json:"email"      db:"email"`
	PasswordHash string    `json:"-"          db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PublicUser is the subset of User returned by the auth endpoints.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Public returns the API-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}
