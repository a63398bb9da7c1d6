package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "starmobiles/internal/delivery/context"
	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	"starmobiles/internal/domain/service"
	"starmobiles/internal/usecase"
	"starmobiles/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	publisher   service.EventPublisher
	now         func() time.Time
	logger      *slog.Logger
}

// BookingServiceParams holds dependencies for BookingService, injected by Fx.
type BookingServiceParams struct {
	fx.In

	BookingRepo repository.BookingRepository
	Publisher   service.EventPublisher
	Logger      *slog.Logger
}

// NewBookingService creates the repair ticket service.
func NewBookingService(params BookingServiceParams) usecase.BookingUsecase {
	return &bookingService{
		bookingRepo: params.BookingRepo,
		publisher:   params.Publisher,
		now:         time.Now,
		logger:      params.Logger,
	}
}

func (srv *bookingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *bookingService) CreateBooking(ctx context.Context, actor usecase.Actor, input *usecase.BookingInput) (*entity.Booking, error) {
	booking := &entity.Booking{
		UserID:        actor.UserID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		Phone:         util.NormalizePhone(input.Phone),
		Brand:         strings.TrimSpace(input.Brand),
		Model:         strings.TrimSpace(input.Model),
		ProblemType:   input.ProblemType,
		Description:   input.Description,
		PreferredDate: input.PreferredDate,
		PreferredTime: input.PreferredTime,
		Status:        entity.BookingPending,
	}

	if booking.CustomerName == "" || booking.Phone == "" || booking.Brand == "" || booking.Model == "" || booking.ProblemType == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("customer name, phone, brand, model and problem type are required")
	}
	if input.PreferredDate != "" {
		if _, err := time.Parse(time.DateOnly, input.PreferredDate); err != nil {
			return nil, domainerrors.ErrValidationFailed.WithDetails("preferred date must be YYYY-MM-DD")
		}
	}

	if err := srv.bookingRepo.Create(ctx, booking); err != nil {
		srv.log(ctx).Error("Failed to create booking", slog.Any("userID", actor.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create booking")
	}
	srv.log(ctx).Info("Booking created", slog.Any("bookingID", booking.ID), slog.Any("userID", actor.UserID))

	publishStoreEvent(ctx, srv.publisher, srv.log(ctx), bookingEvent(service.EventBookingCreated, booking), srv.now())

	return booking, nil
}

func (srv *bookingService) ListBookings(ctx context.Context, actor usecase.Actor) ([]*entity.Booking, error) {
	var (
		bookings []*entity.Booking
		err      error
	)
	if actor.IsAdmin() {
		bookings, err = srv.bookingRepo.ListAll(ctx)
	} else {
		bookings, err = srv.bookingRepo.ListByUser(ctx, actor.UserID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list bookings")
	}

	return bookings, nil
}

// UpdateBooking is admin-only. Any status may follow any other.
func (srv *bookingService) UpdateBooking(ctx context.Context, actor usecase.Actor, id uuid.UUID, update *usecase.BookingUpdate) (*entity.Booking, error) {
	if !actor.IsAdmin() {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "only admins update bookings")
	}
	if !update.Status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown booking status " + string(update.Status))
	}

	booking, err := srv.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	statusChanged := booking.Status != update.Status
	booking.Status = update.Status
	if update.AdminNotes != nil {
		booking.AdminNotes = update.AdminNotes
	}
	booking.UpdatedAt = srv.now()

	if err := srv.bookingRepo.Update(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, errors.Wrap(domainerrors.ErrBookingNotFound, id.String())
		}

		return nil, errors.Wrap(err, "failed to update booking")
	}
	srv.log(ctx).Info("Booking updated", slog.Any("bookingID", id), slog.String("status", string(booking.Status)))

	if statusChanged {
		publishStoreEvent(ctx, srv.publisher, srv.log(ctx), bookingEvent(service.EventBookingStatusChanged, booking), srv.now())
	}

	return booking, nil
}

// DeleteBooking hard deletes a ticket. There is no status guard.
func (srv *bookingService) DeleteBooking(ctx context.Context, actor usecase.Actor, id uuid.UUID) error {
	booking, err := srv.findBooking(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanAccess(booking.UserID) {
		// Hide other customers' tickets.
		return errors.Wrap(domainerrors.ErrBookingNotFound, id.String())
	}

	if err := srv.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return errors.Wrap(domainerrors.ErrBookingNotFound, id.String())
		}

		return errors.Wrap(err, "failed to delete booking")
	}
	srv.log(ctx).Info("Booking deleted", slog.Any("bookingID", id), slog.Any("actorID", actor.UserID))

	return nil
}

func (srv *bookingService) findBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := srv.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, errors.Wrap(domainerrors.ErrBookingNotFound, id.String())
		}

		return nil, errors.Wrap(err, "failed to find booking")
	}

	return booking, nil
}
