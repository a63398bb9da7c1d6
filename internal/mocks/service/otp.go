package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockOTPStore struct {
	mock.Mock
}

func NewMockOTPStore(t testingT) *MockOTPStore {
	m := &MockOTPStore{}
	register(&m.Mock, t)

	return m
}

func (m *MockOTPStore) Issue(ctx context.Context, phone string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, phone, ttl)

	return args.String(0), args.Error(1)
}

func (m *MockOTPStore) Verify(ctx context.Context, phone, code string) (bool, error) {
	args := m.Called(ctx, phone, code)

	return args.Bool(0), args.Error(1)
}

type MockRecoveryStore struct {
	mock.Mock
}

func NewMockRecoveryStore(t testingT) *MockRecoveryStore {
	m := &MockRecoveryStore{}
	register(&m.Mock, t)

	return m
}

func (m *MockRecoveryStore) Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	args := m.Called(ctx, userID, ttl)

	return args.String(0), args.Error(1)
}

func (m *MockRecoveryStore) Consume(ctx context.Context, token string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, token)
	userID, _ := args.Get(0).(uuid.UUID)

	return userID, args.Bool(1), args.Error(2)
}

type MockSendLimiter struct {
	mock.Mock
}

func NewMockSendLimiter(t testingT) *MockSendLimiter {
	m := &MockSendLimiter{}
	register(&m.Mock, t)

	return m
}

func (m *MockSendLimiter) Allow(key string) bool {
	return m.Called(key).Bool(0)
}
