package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingModel mirrors the 'bookings' table of repair tickets.
type BookingModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName  string    `gorm:"type:varchar(100);not null"`
	Phone         string    `gorm:"type:varchar(20);not null"`
	Brand         string    `gorm:"type:varchar(100);not null"`
	Model         string    `gorm:"type:varchar(255);not null"`
	ProblemType   string    `gorm:"type:varchar(100);not null"`
	Description   string    `gorm:"type:text"`
	PreferredDate string    `gorm:"type:varchar(10)"`
	PreferredTime string    `gorm:"type:varchar(20)"`
	Status        string    `gorm:"type:varchar(20);not null;default:pending;index"`
	AdminNotes    *string   `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (BookingModel) TableName() string {
	return "bookings"
}
