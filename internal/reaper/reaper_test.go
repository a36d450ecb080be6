package reaper_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayn0707/showtime-reservations/internal/model"
	"github.com/vinayn0707/showtime-reservations/internal/reaper"
	"github.com/vinayn0707/showtime-reservations/internal/registry"
	"github.com/vinayn0707/showtime-reservations/internal/store/fake"
)

func TestExpiryLiveness(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	holder := uint64(1)
	lockedUntil := now.Add(-time.Second)

	seats := fake.NewSeatStore([]model.ShowSeat{
		{ShowID: 1, SeatID: 10, Status: model.SeatLocked, HolderBookingID: &holder, LockedUntil: &lockedUntil},
	})
	bookings := fake.NewBookingStore()
	id, err := bookings.InsertBooking(context.Background(), model.Booking{
		ID:            1,
		ShowID:        1,
		SeatIDs:       []uint64{10},
		BookingStatus: model.BookingPending,
		ExpiresAt:     now.Add(-time.Second),
	})
	require.NoError(t, err)

	r := reaper.New(registry.New(), seats, bookings, time.Minute, 0)
	r.Now = func() time.Time { return now }
	r.RunOnce(context.Background())

	rows, _ := seats.GetSeats(context.Background(), 1, []uint64{10})
	assert.Equal(t, model.SeatAvailable, rows[0].Status)

	b, _ := bookings.GetBooking(context.Background(), id)
	assert.Equal(t, model.BookingExpired, b.BookingStatus)
}

func TestReaperIsIdempotent(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	holder := uint64(1)
	lockedUntil := now.Add(-time.Second)

	seats := fake.NewSeatStore([]model.ShowSeat{
		{ShowID: 1, SeatID: 10, Status: model.SeatLocked, HolderBookingID: &holder, LockedUntil: &lockedUntil},
	})
	bookings := fake.NewBookingStore()
	id, _ := bookings.InsertBooking(context.Background(), model.Booking{
		ShowID:        1,
		SeatIDs:       []uint64{10},
		BookingStatus: model.BookingPending,
		ExpiresAt:     now.Add(-time.Second),
	})

	r := reaper.New(registry.New(), seats, bookings, time.Minute, 0)
	r.Now = func() time.Time { return now }

	r.RunOnce(context.Background())
	firstRows, _ := seats.GetSeats(context.Background(), 1, []uint64{10})
	firstBooking, _ := bookings.GetBooking(context.Background(), id)

	r.RunOnce(context.Background())
	secondRows, _ := seats.GetSeats(context.Background(), 1, []uint64{10})
	secondBooking, _ := bookings.GetBooking(context.Background(), id)

	assert.Equal(t, firstRows, secondRows)
	assert.Equal(t, firstBooking, secondBooking)
}
