package dto

import (
	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
)

// AddToCartRequest adds a product to the cart, incrementing an existing row.
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1,max=99"`
}

// UpdateCartRequest sets a row's quantity. Zero or less removes the row.
type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

// CartItem is a cart row flattened with its product.
type CartItem struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	Price     int64     `json:"price" validate:"gte=0"`
	Quantity  int       `json:"quantity" validate:"min=1"`
	Image     string    `json:"image"`
}

// FromCartItem maps a cart row. A row whose product was deleted keeps its
// ids with empty product fields.
func FromCartItem(item *entity.CartItem) *CartItem {
	out := &CartItem{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	if p := item.Product; p != nil {
		out.Category = string(p.Category)
		out.Name = p.DisplayName()
		out.Price = p.Price
		out.Image = p.Image
	}

	return out
}

// FromCartItems maps a cart.
func FromCartItems(items []*entity.CartItem) []*CartItem {
	out := make([]*CartItem, 0, len(items))
	for _, item := range items {
		out = append(out, FromCartItem(item))
	}

	return out
}
