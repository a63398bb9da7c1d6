package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OTPStore keeps short-lived one-time passwords keyed by phone.
type OTPStore interface {
	// Issue generates and stores a fresh code for the phone, replacing any previous one.
	Issue(ctx context.Context, phone string, ttl time.Duration) (code string, err error)

	// Verify consumes the code. It returns false when the code is wrong or expired.
	Verify(ctx context.Context, phone, code string) (bool, error)
}

// RecoveryStore keeps password recovery tokens.
type RecoveryStore interface {
	// Issue creates a single-use recovery token for the user.
	Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (token string, err error)

	// Consume resolves and invalidates the token.
	Consume(ctx context.Context, token string) (uuid.UUID, bool, error)
}

// SendLimiter throttles outbound messages per recipient.
type SendLimiter interface {
	Allow(key string) bool
}
