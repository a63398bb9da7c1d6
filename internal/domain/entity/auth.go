// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderType identifies the kind of credential a user signs in with.
type ProviderType string

const (
	// ProviderEmail is an email + password credential.
	ProviderEmail ProviderType = "email"
	// ProviderPhone is a phone + password (or OTP) credential.
	ProviderPhone ProviderType = "phone"
)

// Authentication represents a single method of logging in (a credential).
// A user registered with both an email and a phone owns two records.
type Authentication struct {
	ID             uuid.UUID    // The unique ID for this specific authentication record itself.
	UserID         uuid.UUID    // Links this authentication method to the User it belongs to.
	Provider       ProviderType // The credential kind.
	ProviderUserID string       // The login identifier: lower-cased email or normalized phone.
	PasswordHash   string       // Stores the bcrypt-hashed password.
	CreatedAt      time.Time    // Timestamp of when this authentication method was linked to the user account.
}

// RefreshToken represents a long-lived, authorized user session.
// It is used to obtain a new Access Token after the old one expires, without requiring credentials.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this specific refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // Stores a SHA-256 hash of the raw refresh token for secure comparison in the database.
	ExpiresAt time.Time // The exact time when this refresh token will expire and become invalid.
	CreatedAt time.Time // Timestamp of when this session was created (i.e., when the user logged in).
}

// IsExpired reports whether the token is past its expiry.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Session is the credential pair handed to a client after sign-in.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64 // seconds
	ExpiresAt    int64 // unix seconds
	User         *User
}
