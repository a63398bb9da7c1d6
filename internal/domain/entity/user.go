// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultProfileName is used when neither metadata nor email yield a name.
const DefaultProfileName = "User"

// User is the authenticated identity issued by the relay's auth provider.
// It carries only what sign-up captured; shop-facing data lives in Profile.
type User struct {
	ID        uuid.UUID    // The Global Unique Identifier (GUID) for the user.
	Email     string       // Primary email, empty for phone-only accounts.
	Phone     string       // Phone in +91 form, empty for email-only accounts.
	Metadata  UserMetadata // Free-form data captured at sign-up.
	Profile   *Profile     // The user's profile row. Nil until loaded or when the row is missing.
	CreatedAt time.Time    // Timestamp of when this user account was created.
	UpdatedAt time.Time    // Timestamp of the last modification to this user's data.
}

// UserMetadata is the sign-up metadata attached to a user.
type UserMetadata struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Profile is the one-to-one shop profile of a user.
type Profile struct {
	ID        uuid.UUID // Same value as the owning User.ID.
	Name      string
	Email     string
	Phone     string
	Role      Role
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	Name    *string
	Phone   *string
	Address *string
}

// Apply merges the patch into the profile.
func (pp ProfilePatch) Apply(p *Profile) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Phone != nil {
		p.Phone = *pp.Phone
	}
	if pp.Address != nil {
		p.Address = *pp.Address
	}
}

// FallbackProfile synthesizes a profile for a user whose profile row is
// missing or could not be loaded.
func FallbackProfile(u *User) *Profile {
	name := u.Metadata.Name
	if name == "" && u.Email != "" {
		name, _, _ = strings.Cut(u.Email, "@")
	}
	if name == "" {
		name = DefaultProfileName
	}

	phone := u.Phone
	if phone == "" {
		phone = u.Metadata.Phone
	}

	return &Profile{
		ID:        u.ID,
		Name:      name,
		Email:     u.Email,
		Phone:     phone,
		Role:      RoleUser,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
