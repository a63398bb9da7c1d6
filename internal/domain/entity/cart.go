package entity

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one (user, product) row of a cart.
type CartItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Product   *Product // Joined product, nil when the product was deleted.
	CreatedAt time.Time
	UpdatedAt time.Time
}
