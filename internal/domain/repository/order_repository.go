package repository

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderTotals aggregates order amounts for the admin dashboard.
type OrderTotals struct {
	TotalOrders       int64
	PendingOrders     int64
	CompletedSales    int64
	AdvancesCollected int64
}

// OrderRepository defines product order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// ListByUser returns a user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// ListAll returns every order, newest first.
	ListAll(ctx context.Context) ([]*entity.Order, error)

	// Update writes status, payment status, notes and milestone timestamps.
	Update(ctx context.Context, order *entity.Order) error

	Totals(ctx context.Context) (*OrderTotals, error)
}
