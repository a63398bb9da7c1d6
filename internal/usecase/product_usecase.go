package usecase

import (
	"context"
	"io"

	"starmobiles/internal/domain/entity"
	"starmobiles/internal/domain/service"

	"github.com/google/uuid"
)

// ProductInput is the full set of editable product fields.
type ProductInput struct {
	Brand    string
	Model    string
	Price    int64
	Category entity.ProductCategory
	RAM      *string
	Storage  *string
	Specs    map[string]any
	Rating   *float64
	Stock    *int
	Featured bool
	Image    string
}

// ImageUpload is a product picture received from the back-office.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProductUsecase defines catalog operations. Mutations are admin-only and
// gated at the route.
type ProductUsecase interface {
	ListProducts(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// UploadImage stores a product picture and returns its public URL.
	UploadImage(ctx context.Context, upload *ImageUpload) (string, error)
	// OpenImage reads back an uploaded picture by its object key.
	OpenImage(ctx context.Context, key string) (*service.StoredImage, error)
}
