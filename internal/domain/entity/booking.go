package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a repair ticket.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// BookingStatuses lists every booking status in display order.
var BookingStatuses = []BookingStatus{BookingPending, BookingInProgress, BookingCompleted, BookingCancelled}

// IsValid checks if the status is known.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	default:
		return false
	}
}

// Booking is a repair-service ticket opened by a customer.
type Booking struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	CustomerName  string
	Phone         string
	Brand         string
	Model         string
	ProblemType   string
	Description   string
	PreferredDate string // YYYY-MM-DD as entered by the customer
	PreferredTime string
	Status        BookingStatus
	AdminNotes    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
