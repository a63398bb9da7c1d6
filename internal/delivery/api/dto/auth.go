// Package dto holds the JSON bodies exchanged with the relay. The relay
// binds and validates requests with them, and the storefront client
// validates responses against the same struct tags.
package dto

import (
	"time"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
)

// LoginRequest signs in with an email or a phone number.
type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required_without=Phone,omitempty,email"`
	Phone    string `json:"phone,omitempty" validate:"required_without=Email,omitempty,indian_phone"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest registers a new account. At least one of email or phone.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email,omitempty" validate:"required_without=Phone,omitempty,email"`
	Phone    string `json:"phone,omitempty" validate:"required_without=Email,omitempty,indian_phone"`
	Password string `json:"password" validate:"required,min=6"`
}

// TokenRequest exchanges a refresh token for a new session.
type TokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest ends the current session or, with the global scope, all of them.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty" validate:"omitempty,oneof=local global"`
}

// OTPRequest asks for a one-time code by SMS.
type OTPRequest struct {
	Phone string `json:"phone" validate:"required,indian_phone"`
}

// VerifyOTPRequest completes an OTP sign-in.
type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,indian_phone"`
	Token string `json:"token" validate:"required,numeric,len=6"`
}

// RecoverRequest starts a password recovery.
type RecoverRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RecoverConfirmRequest sets a new password with a recovery token.
type RecoverConfirmRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateUserRequest changes the password of the signed-in user.
type UpdateUserRequest struct {
	CurrentPassword string `json:"current_password,omitempty"`
	Password        string `json:"password" validate:"required,min=6"`
}

// UpdateProfileRequest is a partial profile update.
type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,indian_phone"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// UserMetadata is the sign-up metadata of a user.
type UserMetadata struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// User is the authenticated identity.
type User struct {
	ID           uuid.UUID    `json:"id" validate:"required"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Session is the token pair handed out on sign-in.
type Session struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
	TokenType    string `json:"token_type" validate:"required"`
	ExpiresIn    int64  `json:"expires_in" validate:"gt=0"`
	ExpiresAt    int64  `json:"expires_at" validate:"gt=0"`
	User         *User  `json:"user" validate:"required"`
}

// Profile is the shop profile of a user.
type Profile struct {
	ID      uuid.UUID `json:"id" validate:"required"`
	Name    string    `json:"name"`
	Email   string    `json:"email,omitempty"`
	Phone   string    `json:"phone,omitempty"`
	Role    string    `json:"role" validate:"oneof=user admin"`
	Address string    `json:"address"`
}

// AuthResponse is returned by every sign-in flow.
type AuthResponse struct {
	Session *Session `json:"session" validate:"required"`
	User    *User    `json:"user" validate:"required"`
	Profile *Profile `json:"profile,omitempty"`
}

// FromUser maps a user entity.
func FromUser(u *entity.User) *User {
	if u == nil {
		return nil
	}

	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Phone:        u.Phone,
		UserMetadata: UserMetadata{Name: u.Metadata.Name, Phone: u.Metadata.Phone},
		CreatedAt:    u.CreatedAt,
	}
}

// ToUser maps back to the entity.
func (u *User) ToUser() *entity.User {
	if u == nil {
		return nil
	}

	return &entity.User{
		ID:        u.ID,
		Email:     u.Email,
		Phone:     u.Phone,
		Metadata:  entity.UserMetadata{Name: u.UserMetadata.Name, Phone: u.UserMetadata.Phone},
		CreatedAt: u.CreatedAt,
	}
}

// FromSession maps a session entity.
func FromSession(s *entity.Session) *Session {
	if s == nil {
		return nil
	}

	return &Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
		User:         FromUser(s.User),
	}
}

// ToSession maps back to the entity.
func (s *Session) ToSession() *entity.Session {
	if s == nil {
		return nil
	}

	return &entity.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
		User:         s.User.ToUser(),
	}
}

// FromProfile maps a profile entity.
func FromProfile(p *entity.Profile) *Profile {
	if p == nil {
		return nil
	}

	return &Profile{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Role:    string(p.Role),
		Address: p.Address,
	}
}

// ToProfile maps back to the entity.
func (p *Profile) ToProfile() *entity.Profile {
	if p == nil {
		return nil
	}

	return &entity.Profile{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Role:    entity.Role(p.Role),
		Address: p.Address,
	}
}

// FromAuthOutput maps a sign-in result.
func FromAuthOutput(session *entity.Session, profile *entity.Profile) *AuthResponse {
	resp := &AuthResponse{
		Session: FromSession(session),
		Profile: FromProfile(profile),
	}
	if resp.Session != nil {
		resp.User = resp.Session.User
	}

	return resp
}
