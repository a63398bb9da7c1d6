// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
)

// Logout scopes.
const (
	LogoutScopeLocal  = "local"
	LogoutScopeGlobal = "global"
)

// --- Input DTOs ---

// SignupInput defines the data required to register a new account.
// At least one of Email or Phone must be set.
type SignupInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LoginInput defines the data required for a user to log in with a password.
// Exactly one of Email or Phone is used; Email wins when both are set.
type LoginInput struct {
	Email    string
	Phone    string
	Password string
}

// RefreshTokenInput defines the data required to refresh an access token.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput ends the current session, or every session with the global scope.
type LogoutInput struct {
	UserID       uuid.UUID
	RefreshToken string
	Scope        string
}

// VerifyOTPInput carries the code received by SMS.
type VerifyOTPInput struct {
	Phone string
	Code  string
}

// ResetPasswordInput completes a password recovery.
type ResetPasswordInput struct {
	Token    string
	Password string
}

// ChangePasswordInput updates the password of a signed-in user. CurrentPassword
// is checked when present.
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// --- Output DTOs ---

// AuthOutput is returned by every sign-in flow: the session, the user and the
// authoritative profile in one round trip.
type AuthOutput struct {
	Session *entity.Session
	Profile *entity.Profile
}

// UserUsecase defines the interface for identity and session operations.
// It plays the part of the hosted auth provider.
type UserUsecase interface {
	Signup(ctx context.Context, input *SignupInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*AuthOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error

	// SendOTP texts a one-time code to the phone. The code is logged in
	// development since SMS delivery is external.
	SendOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, input *VerifyOTPInput) (*AuthOutput, error)

	// RequestRecovery issues a password recovery token for the email. Unknown
	// emails succeed silently.
	RequestRecovery(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error
	ChangePassword(ctx context.Context, input *ChangePasswordInput) error

	GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// CleanupExpiredSessions removes expired refresh tokens.
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}
