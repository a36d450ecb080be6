package fake_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinayn0707/showtime-reservations/internal/model"
	"github.com/vinayn0707/showtime-reservations/internal/store"
	"github.com/vinayn0707/showtime-reservations/internal/store/fake"
)

// Two different shows scheduled in the same hall both get a show_seats row
// for physical seat 10; a conditional update scoped to the wrong show must
// never touch the other show's row.
func TestConditionalUpdateSeatsScopesToShowID(t *testing.T) {
	now := time.Now()
	s := fake.NewSeatStore([]model.ShowSeat{
		{ShowID: 1, SeatID: 10, Status: model.SeatAvailable, PriceCents: 100},
		{ShowID: 2, SeatID: 10, Status: model.SeatAvailable, PriceCents: 200},
	})

	bookingID := uint64(99)
	results, err := s.ConditionalUpdateSeats(context.Background(), now, []store.SeatUpdate{
		{
			ShowID:         1,
			SeatID:         10,
			ExpectedStatus: model.SeatAvailable,
			NewStatus:      model.SeatLocked,
			NewHolder:      &bookingID,
			NewLockedUntil: &now,
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Applied)

	show1, _ := s.GetSeats(context.Background(), 1, []uint64{10})
	require.Len(t, show1, 1)
	assert.Equal(t, model.SeatLocked, show1[0].Status)

	show2, _ := s.GetSeats(context.Background(), 2, []uint64{10})
	require.Len(t, show2, 1)
	assert.Equal(t, model.SeatAvailable, show2[0].Status, "updating show 1's seat 10 must not touch show 2's seat 10")
	assert.Nil(t, show2[0].HolderBookingID)
}

func TestConditionalUpdateSeatsMissingShowNotApplied(t *testing.T) {
	s := fake.NewSeatStore([]model.ShowSeat{
		{ShowID: 1, SeatID: 10, Status: model.SeatAvailable, PriceCents: 100},
	})

	results, err := s.ConditionalUpdateSeats(context.Background(), time.Now(), []store.SeatUpdate{
		{ShowID: 404, SeatID: 10, ExpectedStatus: model.SeatAvailable, NewStatus: model.SeatLocked},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Applied)
}
