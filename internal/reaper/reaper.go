// Package reaper implements the Expiry Reaper: the background task that
// reclaims stale seat locks and expires PENDING bookings whose soft lock
// has elapsed. It is grounded on the cleanup worker in the C++ booking
// service this repository's engine package generalizes, translated from a
// condition-variable-driven OS thread into a ticker plus an on-demand wake
// channel, which is the idiomatic Go shape for the same "run periodically,
// or sooner if asked" contract.
package reaper

import (
	"context"
	"log"
	"time"

	"github.com/vinayn0707/showtime-reservations/internal/model"
	"github.com/vinayn0707/showtime-reservations/internal/query"
	"github.com/vinayn0707/showtime-reservations/internal/queue"
	"github.com/vinayn0707/showtime-reservations/internal/registry"
	queuepublisher "github.com/vinayn0707/showtime-reservations/internal/service"
	"github.com/vinayn0707/showtime-reservations/internal/store"
)

// Reaper drives Pass A (stale seat locks) and Pass B (expired PENDING
// bookings) from spec.md §4.5.
type Reaper struct {
	Registry *registry.ShowLockRegistry
	Seats    store.SeatStore
	Bookings store.BookingStore
	Interval time.Duration
	BatchSize int
	Now      func() time.Time

	// Cache is invalidated for every booking this reaper expires, so a
	// cached PENDING projection never outlives the row it was read from.
	// May be nil.
	Cache *query.Cache

	wake chan struct{}
}

// New builds a Reaper. interval defaults to 5 minutes and batchSize to 500
// when zero, matching spec.md §6's configuration defaults.
func New(reg *registry.ShowLockRegistry, seats store.SeatStore, bookings store.BookingStore, interval time.Duration, batchSize int) *Reaper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Reaper{
		Registry:  reg,
		Seats:     seats,
		Bookings:  bookings,
		Interval:  interval,
		BatchSize: batchSize,
		Now:       time.Now,
		wake:      make(chan struct{}, 1),
	}
}

// Wake schedules an immediate pass without waiting for the next tick.
// Non-blocking: if a wake is already pending, this is a no-op.
func (r *Reaper) Wake() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run blocks, running a pass immediately and then on every tick or Wake,
// until ctx is cancelled. In-flight passes complete before Run returns.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	r.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-r.wake:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce executes both passes a single time. Safe to call concurrently
// with itself or with Run: every write is a conditional update keyed on
// the state observed at selection time, so a duplicate run is a no-op.
func (r *Reaper) RunOnce(ctx context.Context) {
	now := r.Now()
	r.expireStaleSeatLocks(ctx, now)
	r.expirePendingBookings(ctx, now)
}

func (r *Reaper) expireStaleSeatLocks(ctx context.Context, now time.Time) {
	rows, err := r.Seats.SelectExpiredLockedSeats(ctx, now, r.BatchSize)
	if err != nil {
		log.Printf("reaper: select expired locked seats failed: %v", err)
		return
	}
	if len(rows) == 0 {
		return
	}

	byShow := make(map[uint64][]model.ShowSeat)
	for _, row := range rows {
		byShow[row.ShowID] = append(byShow[row.ShowID], row)
	}

	for showID, showRows := range byShow {
		release := r.Registry.Acquire(showID)
		updates := make([]store.SeatUpdate, 0, len(showRows))
		for _, row := range showRows {
			updates = append(updates, store.SeatUpdate{
				ShowID:         showID,
				SeatID:         row.SeatID,
				ExpectedStatus: model.SeatLocked,
				ExpectedHolder: row.HolderBookingID,
				ExpiredOnly:    true,
				NewStatus:      model.SeatAvailable,
			})
		}
		if _, err := r.Seats.ConditionalUpdateSeats(ctx, r.Now(), updates); err != nil {
			log.Printf("reaper: releasing stale locks for show %d failed: %v", showID, err)
		}
		release()
	}
}

func (r *Reaper) expirePendingBookings(ctx context.Context, now time.Time) {
	bookings, err := r.Bookings.SelectExpiredPendingBookings(ctx, now, r.BatchSize)
	if err != nil {
		log.Printf("reaper: select expired pending bookings failed: %v", err)
		return
	}

	for _, b := range bookings {
		r.expireOne(ctx, b)
	}
}

func (r *Reaper) expireOne(ctx context.Context, b model.Booking) {
	release := r.Registry.Acquire(b.ShowID)
	defer release()

	current, err := r.Bookings.GetBooking(ctx, b.ID)
	if err != nil {
		log.Printf("reaper: reload booking %d failed: %v", b.ID, err)
		return
	}
	if current.BookingStatus != model.BookingPending {
		return
	}

	now := r.Now()
	updates := make([]store.SeatUpdate, 0, len(current.SeatIDs))
	for _, seatID := range current.SeatIDs {
		updates = append(updates, store.SeatUpdate{
			ShowID:         current.ShowID,
			SeatID:         seatID,
			ExpectedStatus: model.SeatLocked,
			ExpectedHolder: &current.ID,
			NewStatus:      model.SeatAvailable,
		})
	}
	if len(updates) > 0 {
		if _, err := r.Seats.ConditionalUpdateSeats(ctx, now, updates); err != nil {
			log.Printf("reaper: releasing seats for expired booking %d failed: %v", current.ID, err)
		}
	}

	applied, _, err := r.Bookings.UpdateBookingState(ctx, store.BookingUpdate{
		BookingID:      current.ID,
		ExpectedStatus: model.BookingPending,
		NewStatus:      model.BookingExpired,
	})
	if err != nil {
		log.Printf("reaper: expiring booking %d failed: %v", current.ID, err)
		return
	}
	if !applied {
		log.Printf("reaper: booking %d changed state before expiry could apply, skipping", current.ID)
		return
	}
	if r.Cache != nil {
		r.Cache.Invalidate(ctx, current.ID)
	}
	publishBookingExpired(current, now)
}

func publishBookingExpired(b model.Booking, expiredAt time.Time) {
	go func() {
		_ = queuepublisher.PublishBookingExpired(context.Background(), queue.BookingExpiredEvent{
			BookingID: b.ID,
			UserID:    b.UserID,
			ShowID:    b.ShowID,
			SeatIDs:   b.SeatIDs,
			ExpiredAt: expiredAt.UTC().Format(time.RFC3339),
		})
	}()
}
