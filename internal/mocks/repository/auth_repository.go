package repository

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAuthRepository struct {
	mock.Mock
}

func NewMockAuthRepository(t testingT) *MockAuthRepository {
	m := &MockAuthRepository{}
	register(&m.Mock, t)

	return m
}

func (m *MockAuthRepository) CreateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	return m.Called(ctx, auth).Error(0)
}

func (m *MockAuthRepository) FindAuthentication(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error) {
	args := m.Called(ctx, provider, providerUserID)
	auth, _ := args.Get(0).(*entity.Authentication)

	return auth, args.Error(1)
}

func (m *MockAuthRepository) FindAuthenticationsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Authentication, error) {
	args := m.Called(ctx, userID)
	auths, _ := args.Get(0).([]*entity.Authentication)

	return auths, args.Error(1)
}

func (m *MockAuthRepository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}
