package repository

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrCartItemNotFound is returned when a cart row does not exist for the user.
var ErrCartItemNotFound = errors.New("cart item not found")

// CartRepository defines per-user cart persistence. Every method is scoped to a user.
type CartRepository interface {
	// ListByUser returns the user's cart rows with products joined, oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error)

	// FindByUserAndProduct returns the row for a (user, product) pair.
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.CartItem, error)

	Create(ctx context.Context, item *entity.CartItem) error

	// UpdateQuantity sets the quantity of a user's row.
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error

	// Delete removes one of the user's rows.
	Delete(ctx context.Context, userID, itemID uuid.UUID) error

	// DeleteByUser empties the user's cart.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
