// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrDeviceNotFound is returned when no live device matches.
var ErrDeviceNotFound = errors.New("device not found")

// DeviceRepository stores the push targets registered by shoppers.
type DeviceRepository interface {
	// UpsertDevice registers the device for (UserID, DeviceID), reviving a
	// removed row and moving the FCM token away from any other shopper.
	// ID and CreatedAt are set from the stored row.
	UpsertDevice(ctx context.Context, device *entity.UserDevice) error

	FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.UserDevice, error)
	FindActiveDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)

	// DeactivateTokens marks every device holding one of the tokens inactive.
	DeactivateTokens(ctx context.Context, fcmTokens []string) error

	// DeleteDevice soft-deletes a device.
	DeleteDevice(ctx context.Context, id uuid.UUID) error
}
