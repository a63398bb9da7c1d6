package service

import (
	"time"

	"starmobiles/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockPasswordHasher struct {
	mock.Mock
}

func NewMockPasswordHasher(t testingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	register(&m.Mock, t)

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

func (m *MockPasswordHasher) ValidatePasswordStrength(password string) error {
	return m.Called(password).Error(0)
}

type MockTokenService struct {
	mock.Mock
}

func NewMockTokenService(t testingT) *MockTokenService {
	m := &MockTokenService{}
	register(&m.Mock, t)

	return m
}

func (m *MockTokenService) GenerateAccessToken(userID uuid.UUID, roles []string) (string, time.Time, error) {
	args := m.Called(userID, roles)
	expiresAt, _ := args.Get(1).(time.Time)

	return args.String(0), expiresAt, args.Error(2)
}

func (m *MockTokenService) GenerateRefreshToken() (string, error) {
	args := m.Called()

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) HashRefreshToken(raw string) string {
	return m.Called(raw).String(0)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) GetAccessTokenDuration() time.Duration {
	d, _ := m.Called().Get(0).(time.Duration)

	return d
}

func (m *MockTokenService) GetRefreshTokenDuration() time.Duration {
	d, _ := m.Called().Get(0).(time.Duration)

	return d
}
