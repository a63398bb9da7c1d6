package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProductModel mirrors the 'products' table. Specs is a free-form JSONB document.
type ProductModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Brand     string    `gorm:"type:varchar(100);not null;index"`
	Model     string    `gorm:"type:varchar(255);not null"`
	Price     int64     `gorm:"not null;check:price >= 0"`
	Category  string    `gorm:"type:varchar(20);not null;index;check:category IN ('mobile','accessory')"`
	RAM       *string   `gorm:"column:ram;type:varchar(50)"`
	Storage   *string   `gorm:"type:varchar(50)"`
	Specs     datatypes.JSONMap
	Rating    *float64
	Stock     *int
	Featured  bool   `gorm:"not null;default:false;index"`
	Image     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
