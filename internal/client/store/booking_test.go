package store

import (
	"testing"

	"starmobiles/internal/client/localstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screenRepair() BookingInput {
	return BookingInput{
		CustomerName:  "Asha",
		Phone:         "9876543210",
		Brand:         "Apple",
		Model:         "iPhone 13",
		ProblemType:   "screen",
		PreferredDate: "2026-05-12",
		PreferredTime: "11:00",
	}
}

func TestBookingStore_AddBooking_RequiresSession(t *testing.T) {
	f := newFakeRelay(t)
	sf := f.storefront(localstore.NewMemoryStore())

	res := sf.Bookings.AddBooking(t.Context(), screenRepair())
	assert.Equal(t, BookingResult{Message: "Please login to book a service"}, res)
	assert.Zero(t, f.hits.Load())
}

func TestBookingStore_DeleteAfterCompletion(t *testing.T) {
	f := newFakeRelay(t)
	sf := f.signedIn(t)
	bookings := sf.Bookings

	res := bookings.AddBooking(t.Context(), screenRepair())
	require.True(t, res.Success)
	require.NotEqual(t, uuid.Nil, res.BookingID)
	require.Len(t, bookings.Bookings(), 1)
	assert.Equal(t, "pending", bookings.Bookings()[0].Status)
	assert.Equal(t, "+919876543210", bookings.Bookings()[0].Phone)

	notes := "screen replaced"
	require.True(t, bookings.UpdateBookingStatus(t.Context(), res.BookingID, "completed", &notes))
	assert.Equal(t, "completed", bookings.Bookings()[0].Status)
	assert.Equal(t, notes, *bookings.Bookings()[0].AdminNotes)

	// Completed tickets are not protected by the store.
	require.True(t, bookings.DeleteBooking(t.Context(), res.BookingID))
	assert.Empty(t, bookings.Bookings())
}

func TestBookingStore_UpdateUnknownBooking(t *testing.T) {
	f := newFakeRelay(t)
	sf := f.signedIn(t)

	assert.False(t, sf.Bookings.UpdateBookingStatus(t.Context(), uuid.New(), "in_progress", nil))
	assert.Equal(t, "Booking not found", sf.Bookings.State().Error)
}
