package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "starmobiles/internal/delivery/context"
	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

var devicePlatforms = map[string]bool{
	"web":     true,
	"ios":     true,
	"android": true,
}

type deviceService struct {
	deviceRepo repository.DeviceRepository
	now        func() time.Time
	logger     *slog.Logger
}

// DeviceServiceParams holds dependencies for DeviceService, injected by Fx.
type DeviceServiceParams struct {
	fx.In

	DeviceRepo repository.DeviceRepository
	Logger     *slog.Logger
}

// NewDeviceService creates a new device service instance
func NewDeviceService(params DeviceServiceParams) usecase.DeviceUsecase {
	return &deviceService{
		deviceRepo: params.DeviceRepo,
		now:        time.Now,
		logger:     params.Logger,
	}
}

func (s *deviceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// RegisterDevice registers a device or refreshes the token of a known one.
// A removed or deactivated device comes back active.
func (s *deviceService) RegisterDevice(ctx context.Context, userID uuid.UUID, deviceInfo *usecase.DeviceInfo) (*entity.UserDevice, error) {
	fcmToken := strings.TrimSpace(deviceInfo.FCMToken)
	deviceID := strings.TrimSpace(deviceInfo.DeviceID)
	platform := strings.ToLower(strings.TrimSpace(deviceInfo.Platform))

	switch {
	case fcmToken == "":
		return nil, domainerrors.ErrValidationFailed.WithDetails("fcm token is required")
	case deviceID == "":
		return nil, domainerrors.ErrValidationFailed.WithDetails("device id is required")
	case !devicePlatforms[platform]:
		return nil, domainerrors.ErrValidationFailed.WithDetails("platform must be web, ios or android")
	}

	now := s.now()
	device := &entity.UserDevice{
		ID:        uuid.New(),
		UserID:    userID,
		FCMToken:  fcmToken,
		DeviceID:  deviceID,
		Platform:  platform,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deviceRepo.UpsertDevice(ctx, device); err != nil {
		return nil, errors.Wrap(err, "failed to register device")
	}

	s.log(ctx).Info("Device registered",
		slog.String("device_id", deviceID),
		slog.String("platform", platform),
		slog.Bool("known", device.CreatedAt.Before(now)),
	)

	return device, nil
}

// GetUserDevices retrieves all active devices for a user
func (s *deviceService) GetUserDevices(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	devices, err := s.deviceRepo.FindActiveDevicesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find active devices by user")
	}

	return devices, nil
}

// DeactivateDevice deactivates a device (soft delete)
func (s *deviceService) DeactivateDevice(ctx context.Context, userID, deviceID uuid.UUID) error {
	device, err := s.deviceRepo.FindDeviceByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return errors.Wrap(domainerrors.ErrDeviceNotFound, deviceID.String())
		}

		return errors.Wrap(err, "failed to find device by ID")
	}

	// Another user's device is reported as missing.
	if device.UserID != userID {
		return errors.Wrap(domainerrors.ErrDeviceNotFound, deviceID.String())
	}

	if err := s.deviceRepo.DeleteDevice(ctx, deviceID); err != nil {
		return errors.Wrap(err, "failed to delete device")
	}

	return nil
}
