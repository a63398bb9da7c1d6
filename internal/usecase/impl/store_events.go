package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "starmobiles/internal/delivery/context"
	"starmobiles/internal/domain/entity"
	"starmobiles/internal/domain/service"
)

// publishStoreEvent stamps the request id and time, then publishes. The write
// it describes is already committed, so a publish failure is only logged.
func publishStoreEvent(ctx context.Context, publisher service.EventPublisher, logger *slog.Logger, event *service.StoreEvent, now time.Time) {
	event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	event.OccurredAt = now.Unix()

	if err := publisher.PublishStoreEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish store event",
			slog.String("type", string(event.Type)),
			slog.String("resourceID", event.ResourceID),
			slog.Any("error", err))
	}
}

func orderEvent(eventType service.StoreEventType, order *entity.Order) *service.StoreEvent {
	return &service.StoreEvent{
		Type:          eventType,
		ResourceID:    order.ID.String(),
		UserID:        order.UserID.String(),
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		Title:         order.ProductName,
		CustomerName:  order.CustomerName,
	}
}

func bookingEvent(eventType service.StoreEventType, booking *entity.Booking) *service.StoreEvent {
	return &service.StoreEvent{
		Type:         eventType,
		ResourceID:   booking.ID.String(),
		UserID:       booking.UserID.String(),
		Status:       string(booking.Status),
		Title:        booking.Brand + " " + booking.Model,
		CustomerName: booking.CustomerName,
	}
}
