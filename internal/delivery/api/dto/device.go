package dto

import (
	"time"

	"starmobiles/internal/domain/entity"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
)

// RegisterDeviceRequest registers an FCM token for push notifications.
type RegisterDeviceRequest struct {
	FCMToken string `json:"fcm_token" validate:"required"`
	DeviceID string `json:"device_id" validate:"required,max=255"`
	Platform string `json:"platform" validate:"required,oneof=web ios android"`
}

// ToDeviceInfo maps the request to the usecase input.
func (r *RegisterDeviceRequest) ToDeviceInfo() *usecase.DeviceInfo {
	return &usecase.DeviceInfo{
		FCMToken: r.FCMToken,
		DeviceID: r.DeviceID,
		Platform: r.Platform,
	}
}

// Device is a registered device as shown to its owner. The FCM token is
// write-only.
type Device struct {
	ID         uuid.UUID `json:"id" validate:"required"`
	DeviceID   string    `json:"device_id"`
	Platform   string    `json:"platform"`
	IsActive   bool      `json:"is_active"`
	Registered time.Time `json:"registered_at"`
}

// FromDevice maps a device entity.
func FromDevice(d *entity.UserDevice) *Device {
	return &Device{
		ID:         d.ID,
		DeviceID:   d.DeviceID,
		Platform:   d.Platform,
		IsActive:   d.IsActive,
		Registered: d.CreatedAt,
	}
}

// FromDevices maps a device list.
func FromDevices(devices []*entity.UserDevice) []*Device {
	out := make([]*Device, 0, len(devices))
	for _, d := range devices {
		out = append(out, FromDevice(d))
	}

	return out
}
