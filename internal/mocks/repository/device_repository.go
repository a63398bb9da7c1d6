package repository

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockDeviceRepository struct {
	mock.Mock
}

func NewMockDeviceRepository(t testingT) *MockDeviceRepository {
	m := &MockDeviceRepository{}
	register(&m.Mock, t)

	return m
}

func (m *MockDeviceRepository) UpsertDevice(ctx context.Context, device *entity.UserDevice) error {
	return m.Called(ctx, device).Error(0)
}

func (m *MockDeviceRepository) FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.UserDevice, error) {
	args := m.Called(ctx, id)
	device, _ := args.Get(0).(*entity.UserDevice)

	return device, args.Error(1)
}

func (m *MockDeviceRepository) FindActiveDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	args := m.Called(ctx, userID)
	devices, _ := args.Get(0).([]*entity.UserDevice)

	return devices, args.Error(1)
}

func (m *MockDeviceRepository) DeactivateTokens(ctx context.Context, fcmTokens []string) error {
	return m.Called(ctx, fcmTokens).Error(0)
}

func (m *MockDeviceRepository) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
