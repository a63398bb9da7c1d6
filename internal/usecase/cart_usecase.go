package usecase

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
)

// CartUsecase defines per-user cart operations.
type CartUsecase interface {
	ListCart(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error)

	// AddToCart increments an existing row for the product by quantity, or inserts one.
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*entity.CartItem, error)

	// UpdateQuantity sets a row's quantity. A quantity of zero or less removes the row.
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error

	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}
