// Package query implements the Query Surface: read-only projections over
// the seat and booking stores with no correctness dependency on the
// reservation engine (spec.md §4.7).
package query

import (
	"context"
	"time"

	"github.com/vinayn0707/showtime-reservations/internal/model"
	"github.com/vinayn0707/showtime-reservations/internal/store"
)

// Surface answers read-only questions about shows and bookings.
type Surface struct {
	Seats    store.SeatStore
	Bookings store.BookingStore
	Cache    *Cache // may be nil; every method degrades to direct reads
	Now      func() time.Time
}

func New(seats store.SeatStore, bookings store.BookingStore, cache *Cache) *Surface {
	return &Surface{Seats: seats, Bookings: bookings, Cache: cache, Now: time.Now}
}

// AvailableSeats returns show-seats whose effective status is AVAILABLE,
// treating a stale lock as available without mutating it: mutation is the
// reaper's job, not the query surface's.
func (s *Surface) AvailableSeats(ctx context.Context, showID uint64, allSeatIDs []uint64) ([]model.ShowSeat, error) {
	rows, err := s.Seats.GetSeats(ctx, showID, allSeatIDs)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	out := make([]model.ShowSeat, 0, len(rows))
	for _, row := range rows {
		if !row.IsLive(now) {
			out = append(out, row)
		}
	}
	return out, nil
}

// UserBookings returns a user's booking history, most recent first.
func (s *Surface) UserBookings(ctx context.Context, userID uint64, limit int) ([]model.Booking, error) {
	return s.Bookings.ListByUser(ctx, userID, limit)
}

// GetBooking is a read-through projection with an optional short-TTL cache
// that MUST be invalidated on any write to the booking; call InvalidateBooking
// from every code path that mutates a booking's state.
func (s *Surface) GetBooking(ctx context.Context, bookingID uint64) (model.Booking, error) {
	if s.Cache != nil {
		if b, ok := s.Cache.Get(ctx, bookingID); ok {
			return b, nil
		}
	}
	b, err := s.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, b)
	}
	return b, nil
}

// InvalidateBooking drops any cached projection of bookingID. Every writer
// of a booking's state (the engine, the reaper, the payment coordinator)
// must call this after a successful write.
func (s *Surface) InvalidateBooking(ctx context.Context, bookingID uint64) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, bookingID)
	}
}

// Occupancy returns the fraction of allSeatIDs currently BOOKED for showID.
// Eventually consistent; not on the engine's write path.
func (s *Surface) Occupancy(ctx context.Context, showID uint64, allSeatIDs []uint64) (float64, error) {
	rows, err := s.Seats.GetSeats(ctx, showID, allSeatIDs)
	if err != nil || len(rows) == 0 {
		return 0, err
	}
	booked := 0
	for _, row := range rows {
		if row.Status == model.SeatBooked {
			booked++
		}
	}
	return float64(booked) / float64(len(rows)), nil
}

// Revenue sums TotalAmountCents across a show's CONFIRMED bookings.
func (s *Surface) Revenue(ctx context.Context, bookings []model.Booking) int64 {
	var total int64
	for _, b := range bookings {
		if b.BookingStatus == model.BookingConfirmed {
			total += b.TotalAmountCents
		}
	}
	return total
}
