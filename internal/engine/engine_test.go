package engine_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayn0707/showtime-reservations/internal/engine"
	"github.com/vinayn0707/showtime-reservations/internal/model"
	"github.com/vinayn0707/showtime-reservations/internal/reaper"
	"github.com/vinayn0707/showtime-reservations/internal/registry"
	"github.com/vinayn0707/showtime-reservations/internal/store/fake"
)

func newTestEngine(t *testing.T, now time.Time, seats []model.ShowSeat, shows ...model.Show) (*engine.Engine, *fake.SeatStore, *fake.BookingStore) {
	t.Helper()
	seatStore := fake.NewSeatStore(seats)
	bookingStore := fake.NewBookingStore()
	showLookup := fake.NewShowLookup(shows...)
	e := engine.New(registry.New(), seatStore, bookingStore, showLookup, time.Hour, func() time.Time { return now })
	return e, seatStore, bookingStore
}

func scheduledShow(id uint64, startsAt time.Time) model.Show {
	return model.Show{ID: id, Status: "SCHEDULED", StartsAt: startsAt}
}

// scenario 1: happy path.
func TestHappyPath(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	seats := []model.ShowSeat{
		{ShowID: 1, SeatID: 10, Status: model.SeatAvailable, PriceCents: 100},
		{ShowID: 1, SeatID: 11, Status: model.SeatAvailable, PriceCents: 100},
		{ShowID: 1, SeatID: 12, Status: model.SeatAvailable, PriceCents: 100},
	}
	e, seatStore, _ := newTestEngine(t, now, seats, scheduledShow(1, now.Add(24*time.Hour)))

	res, err := e.InitiateBooking(context.Background(), 7, 1, []uint64{10, 11}, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(200), res.TotalAmount)
	assert.Equal(t, now.Add(15*time.Minute), res.ExpiresAt)

	rows, _ := seatStore.GetSeats(context.Background(), 1, []uint64{10, 11, 12})
	for _, r := range rows {
		if r.SeatID == 12 {
			assert.Equal(t, model.SeatAvailable, r.Status)
			continue
		}
		assert.Equal(t, model.SeatLocked, r.Status)
		assert.True(t, r.HeldBy(res.BookingID))
	}

	err = e.ConfirmBooking(context.Background(), res.BookingID, "tx_abc")
	require.NoError(t, err)

	rows, _ = seatStore.GetSeats(context.Background(), 1, []uint64{10, 11})
	for _, r := range rows {
		assert.Equal(t, model.SeatBooked, r.Status)
	}
}

// scenario 2: double attempt loses.
func TestDoubleAttemptLoses(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	seats := []model.ShowSeat{
		{ShowID: 1, SeatID: 10, Status: model.SeatAvailable, PriceCents: 100},
		{ShowID: 1, SeatID: 12, Status: model.SeatAvailable, PriceCents: 100},
	}
	e, seatStore, bookingStore := newTestEngine(t, now, seats, scheduledShow(1, now.Add(24*time.Hour)))

	_, err := e.InitiateBooking(context.Background(), 7, 1, []uint64{10}, 15*time.Minute)
	require.NoError(t, err)

	_, err = e.InitiateBooking(context.Background(), 8, 1, []uint64{10, 12}, 15*time.Minute)
	require.Error(t, err)
	engErr, ok := err.(*engine.Error)
	require.True(t, ok)
	assert.Equal(t, engine.SeatUnavailable, engErr.Kind)
	assert.Equal(t, []uint64{10}, engErr.FailedSeatIDs)

	rows, _ := seatStore.GetSeats(context.Background(), 1, []uint64{12})
	assert.Equal(t, model.SeatAvailable, rows[0].Status)

	bookings, _ := bookingStore.ListByUser(context.Background(), 8, 10)
	assert.Empty(t, bookings)
}

// scenario 3: expiry reclamation.
func TestExpiryReclamation(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	seats := []model.ShowSeat{
		{ShowID: 1, SeatID: 10, Status: model.SeatAvailable, PriceCents: 100},
	}
	e, seatStore, bookingStore := newTestEngine(t, now, seats, scheduledShow(1, now.Add(24*time.Hour)))

	res, err := e.InitiateBooking(context.Background(), 7, 1, []uint64{10}, time.Minute)
	require.NoError(t, err)

	later := now.Add(70 * time.Second)
	e.Now = func() time.Time { return later }

	r := reaper.New(e.Registry, seatStore, bookingStore, time.Minute, 0)
	r.Now = e.Now
	r.RunOnce(context.Background())

	rows, _ := seatStore.GetSeats(context.Background(), 1, []uint64{10})
	assert.Equal(t, model.SeatAvailable, rows[0].Status)

	b, _ := bookingStore.GetBooking(context.Background(), res.BookingID)
	assert.Equal(t, model.BookingExpired, b.BookingStatus)

	err = e.ConfirmBooking(context.Background(), res.BookingID, "tx")
	require.Error(t, err)
	engErr := err.(*engine.Error)
	assert.Equal(t, engine.Terminal, engErr.Kind)
}

// scenario 4: concurrent contention.
func TestConcurrentContention(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	seats := []model.ShowSeat{
		{ShowID: 1, SeatID: 20, Status: model.SeatAvailable, PriceCents: 100},
	}
	e, _, _ := newTestEngine(t, now, seats, scheduledShow(1, now.Add(24*time.Hour)))

	const n = 50
	var wg sync.WaitGroup
	var successes int64
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			_, err := e.InitiateBooking(context.Background(), userID, 1, []uint64{20}, 15*time.Minute)
			if err == nil {
				atomic.AddInt64(&successes, 1)
			}
		}(uint64(i + 1))
	}
	wg.Wait()

	assert.EqualValues(t, 1, successes)
}

// scenario 5: payment failure rollback (engine side: cancel restores AVAILABLE).
func TestCancelPendingRestoresSeats(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	seats := []model.ShowSeat{
		{ShowID: 1, SeatID: 30, Status: model.SeatAvailable, PriceCents: 100},
		{ShowID: 1, SeatID: 31, Status: model.SeatAvailable, PriceCents: 100},
	}
	e, seatStore, bookingStore := newTestEngine(t, now, seats, scheduledShow(1, now.Add(24*time.Hour)))

	res, err := e.InitiateBooking(context.Background(), 7, 1, []uint64{30, 31}, 15*time.Minute)
	require.NoError(t, err)

	refundNeeded, err := e.CancelBooking(context.Background(), res.BookingID, 7)
	require.NoError(t, err)
	assert.False(t, refundNeeded)

	rows, _ := seatStore.GetSeats(context.Background(), 1, []uint64{30, 31})
	for _, r := range rows {
		assert.Equal(t, model.SeatAvailable, r.Status)
		assert.Nil(t, r.HolderBookingID)
	}
	b, _ := bookingStore.GetBooking(context.Background(), res.BookingID)
	assert.Equal(t, model.BookingCancelled, b.BookingStatus)
}

// scenario 6b: a deadline that elapses while a sibling holds the show's
// mutex aborts with TIMEOUT and leaves no seat locked and no booking row
// behind for the caller that gave up.
func TestInitiateBookingTimesOutWithoutPartialEffects(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	seats := []model.ShowSeat{
		{ShowID: 1, SeatID: 50, Status: model.SeatAvailable, PriceCents: 100},
	}
	e, seatStore, bookingStore := newTestEngine(t, now, seats, scheduledShow(1, now.Add(24*time.Hour)))

	release := e.Registry.Acquire(1)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := e.InitiateBooking(ctx, 7, 1, []uint64{50}, 15*time.Minute)
	require.Error(t, err)
	engErr, ok := err.(*engine.Error)
	require.True(t, ok)
	assert.Equal(t, engine.Timeout, engErr.Kind)

	rows, _ := seatStore.GetSeats(context.Background(), 1, []uint64{50})
	assert.Equal(t, model.SeatAvailable, rows[0].Status)
	assert.Nil(t, rows[0].HolderBookingID)

	bookings, _ := bookingStore.ListByUser(context.Background(), 7, 10)
	assert.Empty(t, bookings)
}

// scenario 6: confirm after expiry.
func TestConfirmAfterExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	seats := []model.ShowSeat{
		{ShowID: 1, SeatID: 40, Status: model.SeatAvailable, PriceCents: 100},
	}
	e, seatStore, _ := newTestEngine(t, now, seats, scheduledShow(1, now.Add(24*time.Hour)))

	res, err := e.InitiateBooking(context.Background(), 7, 1, []uint64{40}, time.Minute)
	require.NoError(t, err)

	e.Now = func() time.Time { return now.Add(90 * time.Second) }

	err = e.ConfirmBooking(context.Background(), res.BookingID, "tx")
	require.Error(t, err)
	assert.Equal(t, engine.Expired, err.(*engine.Error).Kind)

	rows, _ := seatStore.GetSeats(context.Background(), 1, []uint64{40})
	assert.Equal(t, model.SeatLocked, rows[0].Status)
}
