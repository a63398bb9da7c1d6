package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductOrderModel mirrors the 'product_orders' table. Product fields are
// denormalized so an order survives product edits and deletions.
type ProductOrderModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null"`
	ProductName     string    `gorm:"type:varchar(255);not null"`
	ProductCategory string    `gorm:"type:varchar(20);not null"`
	ProductPrice    int64     `gorm:"not null"`
	Quantity        int       `gorm:"not null;default:1;check:quantity > 0"`
	TotalAmount     int64     `gorm:"not null"`
	AdvanceAmount   int64     `gorm:"not null"`
	CustomerName    string    `gorm:"type:varchar(100);not null"`
	Phone           string    `gorm:"type:varchar(20);not null"`
	Address         string    `gorm:"type:text;not null"`
	Status          string    `gorm:"type:varchar(30);not null;default:pending_verification;index"`
	PaymentStatus   string    `gorm:"type:varchar(30);not null;default:unpaid"`
	AdminNotes      *string   `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
	VerifiedAt      *time.Time
	PaidAt          *time.Time
	CompletedAt     *time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductOrderModel) TableName() string {
	return "product_orders"
}
