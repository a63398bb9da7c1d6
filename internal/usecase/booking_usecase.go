package usecase

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
)

// BookingInput opens a repair ticket.
type BookingInput struct {
	CustomerName  string
	Phone         string
	Brand         string
	Model         string
	ProblemType   string
	Description   string
	PreferredDate string
	PreferredTime string
}

// BookingUpdate is an admin status change.
type BookingUpdate struct {
	Status     entity.BookingStatus
	AdminNotes *string
}

// BookingUsecase defines repair ticket operations.
type BookingUsecase interface {
	CreateBooking(ctx context.Context, actor Actor, input *BookingInput) (*entity.Booking, error)

	// ListBookings returns the caller's tickets, or every ticket for an admin.
	ListBookings(ctx context.Context, actor Actor) ([]*entity.Booking, error)

	// UpdateBooking sets any status; statuses are unordered.
	UpdateBooking(ctx context.Context, actor Actor, id uuid.UUID, update *BookingUpdate) (*entity.Booking, error)

	// DeleteBooking hard deletes a ticket owned by the caller, or any ticket for an admin.
	DeleteBooking(ctx context.Context, actor Actor, id uuid.UUID) error
}
