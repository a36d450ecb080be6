package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayn0707/showtime-reservations/internal/model"
	"github.com/vinayn0707/showtime-reservations/internal/query"
	"github.com/vinayn0707/showtime-reservations/internal/store/fake"
)

func TestAvailableSeatsTreatsStaleLockAsAvailableWithoutMutating(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	holder := uint64(1)
	stale := now.Add(-time.Minute)

	seats := fake.NewSeatStore([]model.ShowSeat{
		{ShowID: 1, SeatID: 10, Status: model.SeatLocked, HolderBookingID: &holder, LockedUntil: &stale},
		{ShowID: 1, SeatID: 11, Status: model.SeatBooked, HolderBookingID: &holder},
	})
	bookings := fake.NewBookingStore()
	s := query.New(seats, bookings, nil)
	s.Now = func() time.Time { return now }

	avail, err := s.AvailableSeats(context.Background(), 1, []uint64{10, 11})
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, uint64(10), avail[0].SeatID)

	rows, _ := seats.GetSeats(context.Background(), 1, []uint64{10})
	assert.Equal(t, model.SeatLocked, rows[0].Status, "the query surface must not mutate stale locks")
}

func TestGetBookingWithoutCache(t *testing.T) {
	bookings := fake.NewBookingStore()
	id, _ := bookings.InsertBooking(context.Background(), model.Booking{UserID: 7, ShowID: 1})
	s := query.New(fake.NewSeatStore(nil), bookings, nil)

	b, err := s.GetBooking(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), b.UserID)
}

func TestRevenueOnlyCountsConfirmed(t *testing.T) {
	s := query.New(fake.NewSeatStore(nil), fake.NewBookingStore(), nil)
	total := s.Revenue(context.Background(), []model.Booking{
		{BookingStatus: model.BookingConfirmed, TotalAmountCents: 100},
		{BookingStatus: model.BookingCancelled, TotalAmountCents: 500},
		{BookingStatus: model.BookingConfirmed, TotalAmountCents: 50},
	})
	assert.Equal(t, int64(150), total)
}
