package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"starmobiles/config"
	domainerrors "starmobiles/internal/domain/errors"
	mockRepo "starmobiles/internal/mocks/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(maxActiveSessions int) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:          12,
			MaxActiveSessions:   maxActiveSessions,
			RecoveryTTL:         30 * time.Minute,
			RecoveryRedirectURL: "https://starmobiles.test/reset-password",
		},
		OTP: &config.OTPConfig{TTL: 2 * time.Minute},
		Storefront: config.StorefrontConfig{
			AdvanceRate:  "0.2",
			UPIPayeeID:   "starmobiles@okaxis",
			UPIPayeeName: "Star Mobiles",
		},
	}
}

// appErrorDetails returns the details carried by the AppError inside err.
func appErrorDetails(t *testing.T, err error) string {
	t.Helper()

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr), "not an AppError: %v", err)

	return appErr.Details()
}

func ptr[T any](v T) *T {
	return &v
}

// newMockFactory wires a fake transaction manager over fresh repository mocks.
func newMockFactory(t *testing.T) (*mockRepo.FakeTransactionManager, *mockRepo.RepositoryFactory) {
	factory := &mockRepo.RepositoryFactory{
		User:         mockRepo.NewMockUserRepository(t),
		Auth:         mockRepo.NewMockAuthRepository(t),
		RefreshToken: mockRepo.NewMockRefreshTokenRepository(t),
		Cart:         mockRepo.NewMockCartRepository(t),
		Order:        mockRepo.NewMockOrderRepository(t),
	}

	return mockRepo.NewFakeTransactionManager(factory), factory
}
