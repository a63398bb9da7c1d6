package repository

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenExpired  = errors.New("refresh token has expired")
)

// RefreshTokenRepository stores one row per signed-in session. Only the
// hash of a refresh token is ever persisted.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByHash reports ErrRefreshTokenExpired for a stale row.
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// DeleteRefreshTokenByHash ends one session (local sign-out, rotation).
	DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error

	// DeleteRefreshTokensByUserID ends every session of a shopper (global
	// sign-out, password reset).
	DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error

	DeleteExpiredRefreshTokens(ctx context.Context) (int64, error)

	// CountActiveSessionsByUserID counts unexpired sessions for the login limit.
	CountActiveSessionsByUserID(ctx context.Context, userID uuid.UUID) (int, error)
}
