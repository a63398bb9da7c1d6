package impl

import (
	"context"
	"testing"
	"time"

	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	"starmobiles/internal/domain/service"
	mockRepo "starmobiles/internal/mocks/repository"
	mockSvc "starmobiles/internal/mocks/service"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type bookingServiceFixtures struct {
	service     usecase.BookingUsecase
	bookingRepo *mockRepo.MockBookingRepository
	publisher   *mockSvc.MockEventPublisher
}

func createTestBookingService(t *testing.T) bookingServiceFixtures {
	f := bookingServiceFixtures{
		bookingRepo: mockRepo.NewMockBookingRepository(t),
		publisher:   mockSvc.NewMockEventPublisher(t),
	}
	svc := NewBookingService(BookingServiceParams{
		BookingRepo: f.bookingRepo,
		Publisher:   f.publisher,
		Logger:      newDiscardLogger(),
	})
	svc.(*bookingService).now = func() time.Time { return time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC) }
	f.service = svc

	return f
}

func validBookingInput() *usecase.BookingInput {
	return &usecase.BookingInput{
		CustomerName:  "Meera",
		Phone:         "9123456780",
		Brand:         "Apple",
		Model:         "iPhone 13",
		ProblemType:   "screen",
		Description:   "cracked after a fall",
		PreferredDate: "2026-05-12",
		PreferredTime: "11:00",
	}
}

func TestBookingService_CreateBooking(t *testing.T) {
	f := createTestBookingService(t)
	ctx := context.Background()
	actor := testCustomer()

	f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*entity.Booking")).Return(nil).Once()
	f.publisher.On("PublishStoreEvent", mock.Anything, mock.MatchedBy(func(event *service.StoreEvent) bool {
		return event.Type == service.EventBookingCreated && event.Title == "Apple iPhone 13" && event.OccurredAt > 0
	})).Return(nil).Once()

	booking, err := f.service.CreateBooking(ctx, actor, validBookingInput())
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, booking.UserID)
	assert.Equal(t, "+919123456780", booking.Phone)
	assert.Equal(t, entity.BookingPending, booking.Status)
}

func TestBookingService_CreateBooking_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *usecase.BookingInput)
	}{
		{name: "missing model", mutate: func(in *usecase.BookingInput) { in.Model = " " }},
		{name: "missing phone", mutate: func(in *usecase.BookingInput) { in.Phone = "" }},
		{name: "bad date", mutate: func(in *usecase.BookingInput) { in.PreferredDate = "12/05/2026" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTestBookingService(t)
			input := validBookingInput()
			tt.mutate(input)

			_, err := f.service.CreateBooking(context.Background(), testCustomer(), input)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}
}

func TestBookingService_UpdateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("customer is forbidden", func(t *testing.T) {
		f := createTestBookingService(t)

		_, err := f.service.UpdateBooking(ctx, testCustomer(), uuid.New(), &usecase.BookingUpdate{Status: entity.BookingCompleted})
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})

	t.Run("admin moves status backwards", func(t *testing.T) {
		f := createTestBookingService(t)
		booking := &entity.Booking{ID: uuid.New(), UserID: uuid.New(), Status: entity.BookingCompleted}
		f.bookingRepo.On("FindByID", ctx, booking.ID).Return(booking, nil).Once()
		f.bookingRepo.On("Update", ctx, booking).Return(nil).Once()
		f.publisher.On("PublishStoreEvent", mock.Anything, mock.MatchedBy(func(event *service.StoreEvent) bool {
			return event.Type == service.EventBookingStatusChanged && event.Status == string(entity.BookingInProgress)
		})).Return(nil).Once()

		updated, err := f.service.UpdateBooking(ctx, testAdmin(), booking.ID, &usecase.BookingUpdate{
			Status:     entity.BookingInProgress,
			AdminNotes: ptr("part on order"),
		})
		require.NoError(t, err)
		assert.Equal(t, entity.BookingInProgress, updated.Status)
		assert.Equal(t, "part on order", *updated.AdminNotes)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := createTestBookingService(t)

		_, err := f.service.UpdateBooking(ctx, testAdmin(), uuid.New(), &usecase.BookingUpdate{Status: "done"})
		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	})
}

func TestBookingService_DeleteBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes regardless of status", func(t *testing.T) {
		f := createTestBookingService(t)
		actor := testCustomer()
		booking := &entity.Booking{ID: uuid.New(), UserID: actor.UserID, Status: entity.BookingInProgress}
		f.bookingRepo.On("FindByID", ctx, booking.ID).Return(booking, nil).Once()
		f.bookingRepo.On("Delete", ctx, booking.ID).Return(nil).Once()

		require.NoError(t, f.service.DeleteBooking(ctx, actor, booking.ID))
	})

	t.Run("other customer sees not found", func(t *testing.T) {
		f := createTestBookingService(t)
		booking := &entity.Booking{ID: uuid.New(), UserID: uuid.New()}
		f.bookingRepo.On("FindByID", ctx, booking.ID).Return(booking, nil).Once()

		assert.ErrorIs(t, f.service.DeleteBooking(ctx, testCustomer(), booking.ID), domainerrors.ErrBookingNotFound)
	})

	t.Run("missing booking", func(t *testing.T) {
		f := createTestBookingService(t)
		id := uuid.New()
		f.bookingRepo.On("FindByID", ctx, id).Return(nil, repository.ErrBookingNotFound).Once()

		assert.ErrorIs(t, f.service.DeleteBooking(ctx, testAdmin(), id), domainerrors.ErrBookingNotFound)
	})
}
