package usecase

import (
	"context"

	"starmobiles/internal/domain/service"
)

// NotificationResult summarizes one fan-out.
type NotificationResult struct {
	Sent          int
	Failed        int
	InvalidTokens int
	AdminNotified bool
}

// NotificationUsecase turns store events into push notifications.
type NotificationUsecase interface {
	// HandleStoreEvent notifies the customer on status changes and the admin
	// topic on new orders and bookings.
	HandleStoreEvent(ctx context.Context, event *service.StoreEvent) (*NotificationResult, error)
}
