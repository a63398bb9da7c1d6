package repository

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrBookingNotFound is returned when a booking is not found.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepository defines repair ticket persistence.
type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)

	// ListByUser returns a user's bookings, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error)

	// ListAll returns every booking, newest first.
	ListAll(ctx context.Context) ([]*entity.Booking, error)

	Update(ctx context.Context, booking *entity.Booking) error

	// Delete hard-deletes a booking.
	Delete(ctx context.Context, id uuid.UUID) error

	CountByStatus(ctx context.Context) (map[entity.BookingStatus]int64, error)
}
