package repository

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines catalog persistence.
type ProductRepository interface {
	// List returns products matching every set filter field, newest first.
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	Create(ctx context.Context, product *entity.Product) error

	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product. Cart rows referencing it are removed with it.
	Delete(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context) (int64, error)
}
