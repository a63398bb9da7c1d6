package impl

import (
	"context"
	"testing"
	"time"

	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	mockRepo "starmobiles/internal/mocks/repository"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// deviceServiceFixtures holds all test dependencies for device service tests.
type deviceServiceFixtures struct {
	service    usecase.DeviceUsecase
	deviceRepo *mockRepo.MockDeviceRepository
	now        time.Time
}

func createTestDeviceService(t *testing.T) deviceServiceFixtures {
	f := deviceServiceFixtures{
		deviceRepo: mockRepo.NewMockDeviceRepository(t),
		now:        time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	svc := NewDeviceService(DeviceServiceParams{DeviceRepo: f.deviceRepo, Logger: newDiscardLogger()})
	svc.(*deviceService).now = func() time.Time { return f.now }
	f.service = svc

	return f
}

func TestDeviceService_RegisterDevice_NewDevice(t *testing.T) {
	f := createTestDeviceService(t)
	ctx := context.Background()
	userID := uuid.New()

	f.deviceRepo.On("UpsertDevice", ctx, mock.MatchedBy(func(d *entity.UserDevice) bool {
		return d.UserID == userID && d.DeviceID == "device-123"
	})).Return(nil).Once()

	device, err := f.service.RegisterDevice(ctx, userID, &usecase.DeviceInfo{
		FCMToken: " test-fcm-token ",
		DeviceID: "device-123",
		Platform: "Android",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, device.UserID)
	assert.Equal(t, "test-fcm-token", device.FCMToken)
	assert.Equal(t, "android", device.Platform)
	assert.True(t, device.IsActive)
	assert.Equal(t, f.now, device.CreatedAt)
}

func TestDeviceService_RegisterDevice_RefreshesExisting(t *testing.T) {
	f := createTestDeviceService(t)
	ctx := context.Background()
	userID := uuid.New()
	existingID := uuid.New()
	registered := f.now.Add(-72 * time.Hour)

	// The stored row wins on conflict and keeps its id and creation time.
	f.deviceRepo.On("UpsertDevice", ctx, mock.AnythingOfType("*entity.UserDevice")).
		Run(func(args mock.Arguments) {
			d := args.Get(1).(*entity.UserDevice)
			d.ID = existingID
			d.CreatedAt = registered
		}).
		Return(nil).Once()

	device, err := f.service.RegisterDevice(ctx, userID, &usecase.DeviceInfo{
		FCMToken: "new-token",
		DeviceID: "device-123",
		Platform: "web",
	})
	require.NoError(t, err)
	assert.Equal(t, existingID, device.ID)
	assert.Equal(t, "new-token", device.FCMToken)
	assert.Equal(t, registered, device.CreatedAt)
	assert.Equal(t, f.now, device.UpdatedAt)
}

func TestDeviceService_RegisterDevice_RepositoryError(t *testing.T) {
	f := createTestDeviceService(t)
	ctx := context.Background()

	f.deviceRepo.On("UpsertDevice", ctx, mock.Anything).Return(errors.New("connection reset")).Once()

	device, err := f.service.RegisterDevice(ctx, uuid.New(), &usecase.DeviceInfo{
		FCMToken: "t", DeviceID: "d", Platform: "ios",
	})
	assert.Nil(t, device)
	assert.ErrorContains(t, err, "failed to register device")
}

func TestDeviceService_RegisterDevice_Validation(t *testing.T) {
	tests := []struct {
		name string
		info usecase.DeviceInfo
	}{
		{name: "missing token", info: usecase.DeviceInfo{DeviceID: "d", Platform: "ios"}},
		{name: "missing device id", info: usecase.DeviceInfo{FCMToken: "t", Platform: "ios"}},
		{name: "unknown platform", info: usecase.DeviceInfo{FCMToken: "t", DeviceID: "d", Platform: "symbian"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTestDeviceService(t)

			_, err := f.service.RegisterDevice(context.Background(), uuid.New(), &tt.info)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}

func TestDeviceService_GetUserDevices(t *testing.T) {
	f := createTestDeviceService(t)
	ctx := context.Background()
	userID := uuid.New()

	f.deviceRepo.On("FindActiveDevicesByUser", ctx, userID).
		Return([]*entity.UserDevice{{ID: uuid.New(), UserID: userID}}, nil).Once()

	devices, err := f.service.GetUserDevices(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, devices, 1)
}

func TestDeviceService_DeactivateDevice(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("owner deactivates", func(t *testing.T) {
		f := createTestDeviceService(t)
		deviceID := uuid.New()
		f.deviceRepo.On("FindDeviceByID", ctx, deviceID).Return(&entity.UserDevice{ID: deviceID, UserID: userID}, nil).Once()
		f.deviceRepo.On("DeleteDevice", ctx, deviceID).Return(nil).Once()

		require.NoError(t, f.service.DeactivateDevice(ctx, userID, deviceID))
	})

	t.Run("another user's device", func(t *testing.T) {
		f := createTestDeviceService(t)
		deviceID := uuid.New()
		f.deviceRepo.On("FindDeviceByID", ctx, deviceID).Return(&entity.UserDevice{ID: deviceID, UserID: uuid.New()}, nil).Once()

		assert.ErrorIs(t, f.service.DeactivateDevice(ctx, userID, deviceID), domainerrors.ErrDeviceNotFound)
	})

	t.Run("unknown device", func(t *testing.T) {
		f := createTestDeviceService(t)
		deviceID := uuid.New()
		f.deviceRepo.On("FindDeviceByID", ctx, deviceID).Return(nil, repository.ErrDeviceNotFound).Once()

		assert.ErrorIs(t, f.service.DeactivateDevice(ctx, userID, deviceID), domainerrors.ErrDeviceNotFound)
	})
}
