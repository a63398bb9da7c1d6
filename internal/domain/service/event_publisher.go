package service

import (
	"context"
)

// StoreEventType names what happened to a shop record.
type StoreEventType string

const (
	EventOrderCreated         StoreEventType = "order.created"
	EventOrderStatusChanged   StoreEventType = "order.status_changed"
	EventBookingCreated       StoreEventType = "booking.created"
	EventBookingStatusChanged StoreEventType = "booking.status_changed"
)

// StoreEvent is published whenever an order or booking is created or changes state.
type StoreEvent struct {
	RequestID     string         `json:"request_id,omitempty"` // For distributed tracing
	Type          StoreEventType `json:"type"`
	ResourceID    string         `json:"resource_id"`
	UserID        string         `json:"user_id"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"payment_status,omitempty"`
	Title         string         `json:"title"` // product name or device model
	CustomerName  string         `json:"customer_name"`
	OccurredAt    int64          `json:"occurred_at"` // unix seconds
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishStoreEvent publishes an order or booking event for async processing
	PublishStoreEvent(ctx context.Context, event *StoreEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
