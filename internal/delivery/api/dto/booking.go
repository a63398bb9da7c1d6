package dto

import (
	"time"

	"starmobiles/internal/domain/entity"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
)

// BookingRequest opens a repair ticket.
type BookingRequest struct {
	CustomerName  string `json:"customer_name" validate:"required,max=100"`
	Phone         string `json:"phone" validate:"required,indian_phone"`
	Brand         string `json:"brand" validate:"required"`
	Model         string `json:"model" validate:"required"`
	ProblemType   string `json:"problem_type" validate:"required"`
	Description   string `json:"description,omitempty" validate:"max=1000"`
	PreferredDate string `json:"preferred_date" validate:"required,datetime=2006-01-02"`
	PreferredTime string `json:"preferred_time" validate:"required"`
}

// ToInput maps the request to the usecase input.
func (r *BookingRequest) ToInput() *usecase.BookingInput {
	return &usecase.BookingInput{
		CustomerName:  r.CustomerName,
		Phone:         r.Phone,
		Brand:         r.Brand,
		Model:         r.Model,
		ProblemType:   r.ProblemType,
		Description:   r.Description,
		PreferredDate: r.PreferredDate,
		PreferredTime: r.PreferredTime,
	}
}

// UpdateBookingRequest is an admin status change.
type UpdateBookingRequest struct {
	Status     string  `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
	AdminNotes *string `json:"admin_notes,omitempty"`
}

// Booking is a repair ticket.
type Booking struct {
	ID            uuid.UUID `json:"id" validate:"required"`
	UserID        uuid.UUID `json:"user_id"`
	CustomerName  string    `json:"customer_name"`
	Phone         string    `json:"phone"`
	Brand         string    `json:"brand"`
	Model         string    `json:"model"`
	ProblemType   string    `json:"problem_type"`
	Description   string    `json:"description"`
	PreferredDate string    `json:"preferred_date"`
	PreferredTime string    `json:"preferred_time"`
	Status        string    `json:"status" validate:"oneof=pending in_progress completed cancelled"`
	AdminNotes    *string   `json:"admin_notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// FromBooking maps a booking entity.
func FromBooking(b *entity.Booking) *Booking {
	return &Booking{
		ID:            b.ID,
		UserID:        b.UserID,
		CustomerName:  b.CustomerName,
		Phone:         b.Phone,
		Brand:         b.Brand,
		Model:         b.Model,
		ProblemType:   b.ProblemType,
		Description:   b.Description,
		PreferredDate: b.PreferredDate,
		PreferredTime: b.PreferredTime,
		Status:        string(b.Status),
		AdminNotes:    b.AdminNotes,
		CreatedAt:     b.CreatedAt,
	}
}

// FromBookings maps a booking list.
func FromBookings(bookings []*entity.Booking) []*Booking {
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, FromBooking(b))
	}

	return out
}
