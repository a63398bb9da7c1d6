package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProductCategory is the top-level catalog partition.
type ProductCategory string

const (
	CategoryMobile    ProductCategory = "mobile"
	CategoryAccessory ProductCategory = "accessory"
)

// IsValid checks if the category is known.
func (c ProductCategory) IsValid() bool {
	return c == CategoryMobile || c == CategoryAccessory
}

// Product is a sellable catalog item. Prices are whole rupees.
type Product struct {
	ID        uuid.UUID
	Brand     string
	Model     string
	Price     int64
	Category  ProductCategory
	RAM       *string
	Storage   *string
	Specs     map[string]any
	Rating    *float64
	Stock     *int
	Featured  bool
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName is how the product is labelled in carts and orders.
func (p *Product) DisplayName() string {
	return p.Brand + " " + p.Model
}

// ProductFilter narrows a catalog listing. All set fields must match.
type ProductFilter struct {
	Category ProductCategory
	Brand    string
	MinPrice *int64
	MaxPrice *int64
	Featured *bool
}
