package store

import (
	"context"
	"log/slog"
	"sync"

	"starmobiles/internal/client/relay"
	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/util"

	"github.com/google/uuid"
)

const msgLoginToBook = "Please login to book a service"

// BookingInput is a repair request as entered by the shopper.
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

// BookingResult reports AddBooking. BookingID is set on success.
type BookingResult struct {
	Success   bool
	BookingID uuid.UUID
	Message   string
}

// BookingState is a snapshot of the booking store.
type BookingState struct {
	Bookings  []dto.Booking
	IsLoading bool
	Error     string
}

// BookingStore mirrors the repair tickets visible to the signed-in user.
// Role checks are left to the relay.
type BookingStore struct {
	subscribers[BookingState]

	relay  *relay.Client
	tokens TokenSource
	logger *slog.Logger

	loads loadSeq
	mu    sync.Mutex
	state BookingState
}

func NewBookingStore(relayClient *relay.Client, tokens TokenSource, logger *slog.Logger) *BookingStore {
	return &BookingStore{relay: relayClient, tokens: tokens, logger: logger}
}

func (b *BookingStore) State() BookingState {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

func (b *BookingStore) Bookings() []dto.Booking { return b.State().Bookings }

func (b *BookingStore) FetchBookings(ctx context.Context) {
	seq := b.loads.next()
	token, ok := bearer(ctx, b.tokens)
	if !ok {
		b.update(func(s *BookingState) { s.Bookings = nil })

		return
	}

	b.update(func(s *BookingState) { s.IsLoading = b.loads.latest(seq) || s.IsLoading })
	b.load(ctx, seq, token)
}

// AddBooking files a repair ticket and reloads the list.
func (b *BookingStore) AddBooking(ctx context.Context, in BookingInput) BookingResult {
	token, ok := bearer(ctx, b.tokens)
	if !ok {
		return BookingResult{Message: msgLoginToBook}
	}

	b.update(func(s *BookingState) { s.IsLoading = true })

	res := b.relay.CreateBooking(ctx, token, dto.BookingRequest{
		CustomerName:  in.CustomerName,
		Phone:         util.NormalizePhone(in.Phone),
		Brand:         in.Brand,
		Model:         in.Model,
		ProblemType:   in.ProblemType,
		Description:   in.Description,
		PreferredDate: in.PreferredDate,
		PreferredTime: in.PreferredTime,
	})
	if !res.IsOk() {
		b.fail("create booking", res.Err())

		return BookingResult{Message: res.Err().Message}
	}
	b.load(ctx, b.loads.next(), token)

	return BookingResult{Success: true, BookingID: res.Value().ID, Message: "Booking confirmed!"}
}

// UpdateBookingStatus sets status and, when notes is non-nil, the admin
// notes, then reloads the list.
func (b *BookingStore) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status string, notes *string) bool {
	token, ok := bearer(ctx, b.tokens)
	if !ok {
		return false
	}

	res := b.relay.UpdateBooking(ctx, token, id, dto.UpdateBookingRequest{Status: status, AdminNotes: notes})
	if !res.IsOk() {
		b.fail("update booking", res.Err())

		return false
	}
	b.load(ctx, b.loads.next(), token)

	return true
}

// DeleteBooking removes the ticket whatever its status.
func (b *BookingStore) DeleteBooking(ctx context.Context, id uuid.UUID) bool {
	token, ok := bearer(ctx, b.tokens)
	if !ok {
		return false
	}

	res := b.relay.DeleteBooking(ctx, token, id)
	if !res.IsOk() {
		b.fail("delete booking", res.Err())

		return false
	}

	b.loads.next()
	b.update(func(s *BookingState) {
		bookings := make([]dto.Booking, 0, len(s.Bookings))
		for _, booking := range s.Bookings {
			if booking.ID != id {
				bookings = append(bookings, booking)
			}
		}
		s.Bookings = bookings
		s.Error = ""
	})

	return true
}

func (b *BookingStore) Reset() {
	b.loads.next()
	b.update(func(s *BookingState) { *s = BookingState{} })
}

func (b *BookingStore) load(ctx context.Context, seq uint64, token string) {
	res := b.relay.ListBookings(ctx, token)
	if !res.IsOk() {
		b.fail("fetch bookings", res.Err())

		return
	}

	b.update(func(s *BookingState) {
		if !b.loads.latest(seq) {
			return
		}
		s.Bookings = res.Value()
		s.IsLoading = false
		s.Error = ""
	})
}

func (b *BookingStore) fail(op string, err *relay.Error) {
	b.logger.Warn("Booking request failed", slog.String("op", op), slog.Any("error", err))
	b.update(func(s *BookingState) {
		s.IsLoading = false
		s.Error = err.Message
	})
}

func (b *BookingStore) update(fn func(*BookingState)) {
	b.mu.Lock()
	fn(&b.state)
	snapshot := b.state
	b.mu.Unlock()

	b.publish(snapshot)
}
