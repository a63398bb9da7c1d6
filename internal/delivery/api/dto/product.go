package dto

import (
	"time"

	"starmobiles/internal/domain/entity"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
)

// ProductRequest carries every editable product field.
type ProductRequest struct {
	Brand    string         `json:"brand" validate:"required,max=50"`
	Model    string         `json:"model" validate:"required,max=100"`
	Price    int64          `json:"price" validate:"gte=0"`
	Category string         `json:"category" validate:"required,oneof=mobile accessory"`
	RAM      *string        `json:"ram,omitempty"`
	Storage  *string        `json:"storage,omitempty"`
	Specs    map[string]any `json:"specs,omitempty"`
	Rating   *float64       `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Stock    *int           `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Featured bool           `json:"featured"`
	Image    string         `json:"image,omitempty" validate:"omitempty,url"`
}

// ToInput maps the request to the usecase input.
func (r *ProductRequest) ToInput() *usecase.ProductInput {
	return &usecase.ProductInput{
		Brand:    r.Brand,
		Model:    r.Model,
		Price:    r.Price,
		Category: entity.ProductCategory(r.Category),
		RAM:      r.RAM,
		Storage:  r.Storage,
		Specs:    r.Specs,
		Rating:   r.Rating,
		Stock:    r.Stock,
		Featured: r.Featured,
		Image:    r.Image,
	}
}

// Product is a catalog entry.
type Product struct {
	ID        uuid.UUID      `json:"id" validate:"required"`
	Brand     string         `json:"brand" validate:"required"`
	Model     string         `json:"model" validate:"required"`
	Price     int64          `json:"price" validate:"gte=0"`
	Category  string         `json:"category" validate:"oneof=mobile accessory"`
	RAM       *string        `json:"ram,omitempty"`
	Storage   *string        `json:"storage,omitempty"`
	Specs     map[string]any `json:"specs,omitempty"`
	Rating    *float64       `json:"rating,omitempty"`
	Stock     *int           `json:"stock,omitempty"`
	Featured  bool           `json:"featured"`
	Image     string         `json:"image"`
	CreatedAt time.Time      `json:"created_at"`
}

// FromProduct maps a product entity.
func FromProduct(p *entity.Product) *Product {
	if p == nil {
		return nil
	}

	return &Product{
		ID:        p.ID,
		Brand:     p.Brand,
		Model:     p.Model,
		Price:     p.Price,
		Category:  string(p.Category),
		RAM:       p.RAM,
		Storage:   p.Storage,
		Specs:     p.Specs,
		Rating:    p.Rating,
		Stock:     p.Stock,
		Featured:  p.Featured,
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
	}
}

// FromProducts maps a product list.
func FromProducts(products []*entity.Product) []*Product {
	out := make([]*Product, 0, len(products))
	for _, p := range products {
		out = append(out, FromProduct(p))
	}

	return out
}

// ToProduct maps back to the entity.
func (p *Product) ToProduct() *entity.Product {
	return &entity.Product{
		ID:        p.ID,
		Brand:     p.Brand,
		Model:     p.Model,
		Price:     p.Price,
		Category:  entity.ProductCategory(p.Category),
		RAM:       p.RAM,
		Storage:   p.Storage,
		Specs:     p.Specs,
		Rating:    p.Rating,
		Stock:     p.Stock,
		Featured:  p.Featured,
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
	}
}

// ImageUploaded is the answer to an image upload.
type ImageUploaded struct {
	URL string `json:"url" validate:"required,url"`
}

// ServiceCatalog lists the repair offering shown on the booking form.
type ServiceCatalog struct {
	ProblemTypes   []string               `json:"problem_types"`
	Brands         []string               `json:"brands"`
	RepairServices []entity.RepairService `json:"repair_services"`
}
