package usecase

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderInput books a product. Price, name and category are taken from the
// catalog, never from the client.
type OrderInput struct {
	ProductID    uuid.UUID
	Quantity     int
	CustomerName string
	Phone        string
	Address      string
}

// PaymentQR is the advance payment QR code of an order.
type PaymentQR struct {
	PNG    []byte
	URI    string
	Amount int64 // the advance, in rupees
}

// OrderUsecase defines the advance-payment order workflow.
type OrderUsecase interface {
	CreateOrder(ctx context.Context, actor Actor, input *OrderInput) (*entity.Order, error)

	// ListOrders returns the caller's orders, or every order for an admin.
	ListOrders(ctx context.Context, actor Actor) ([]*entity.Order, error)

	// UpdateOrder applies a status change. Owners may only cancel.
	UpdateOrder(ctx context.Context, actor Actor, id uuid.UUID, update *entity.OrderUpdate) (*entity.Order, error)

	// CancelOrder is a soft transition to cancelled; the record is kept.
	CancelOrder(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Order, error)

	// PaymentQR renders the UPI QR code for the order's advance.
	PaymentQR(ctx context.Context, actor Actor, id uuid.UUID) (*PaymentQR, error)
}
