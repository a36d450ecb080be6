// Package engine implements the Reservation Engine: the lock/confirm/cancel
// state machine that is the only writer of seat status and booking status.
// Every method here runs its store-mutating section under the show's mutex
// and never holds that mutex across a payment gateway call.
package engine

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/vinayn0707/showtime-reservations/internal/model"
	"github.com/vinayn0707/showtime-reservations/internal/registry"
	"github.com/vinayn0707/showtime-reservations/internal/store"
)

// ShowLookup is the read-only catalog collaborator the engine needs: just
// enough of a show row to validate a booking attempt against it.
type ShowLookup interface {
	GetShow(ctx context.Context, showID uint64) (model.Show, error)
}

// Clock is injected so tests can control "now" deterministically.
type Clock func() time.Time

// Engine implements initiateBooking/confirmBooking/cancelBooking (spec.md
// §4.2-§4.4) against a ShowLockRegistry and the Seat/Booking stores, all
// passed in at construction rather than reached for as globals.
type Engine struct {
	Registry     *registry.ShowLockRegistry
	Seats        store.SeatStore
	Bookings     store.BookingStore
	Shows        ShowLookup
	Now          Clock
	CancelGrace  time.Duration
}

// New builds an Engine. now defaults to time.Now when nil.
func New(reg *registry.ShowLockRegistry, seats store.SeatStore, bookings store.BookingStore, shows ShowLookup, cancelGrace time.Duration, now Clock) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{Registry: reg, Seats: seats, Bookings: bookings, Shows: shows, Now: now, CancelGrace: cancelGrace}
}

// BookingResult is the success value of InitiateBooking.
type BookingResult struct {
	BookingID   uint64
	ExpiresAt   time.Time
	TotalAmount int64
}

func dedupe(seatIDs []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(seatIDs))
	out := make([]uint64, 0, len(seatIDs))
	for _, id := range seatIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// InitiateBooking implements spec.md §4.2. It acquires the show's mutex for
// its entire critical section, so callers racing on the same show never
// interleave their seat checks and writes.
func (e *Engine) InitiateBooking(ctx context.Context, userID, showID uint64, seatIDs []uint64, lockDuration time.Duration) (BookingResult, error) {
	if len(seatIDs) == 0 {
		return BookingResult{}, newErr(NotFound, "no seats requested")
	}
	seatIDs = dedupe(seatIDs)

	if ctx.Err() != nil {
		return BookingResult{}, newErr(Timeout, "deadline elapsed before acquiring show lock")
	}

	show, err := e.Shows.GetShow(ctx, showID)
	if err != nil {
		return BookingResult{}, newErr(NotFound, "show not found")
	}
	now := e.Now()
	if show.Status != "SCHEDULED" || !show.StartsAt.After(now) {
		return BookingResult{}, newErr(NotFound, "show is not open for booking")
	}

	release, err := e.Registry.AcquireCtx(ctx, showID)
	if err != nil {
		return BookingResult{}, newErr(Timeout, "deadline elapsed while waiting for show lock")
	}
	defer release()

	if ctx.Err() != nil {
		return BookingResult{}, newErr(Timeout, "deadline elapsed while holding show lock")
	}
	now = e.Now()

	rows, err := e.Seats.GetSeats(ctx, showID, seatIDs)
	if err != nil {
		return BookingResult{}, newErr(Timeout, "seat store read failed: "+err.Error())
	}
	if len(rows) != len(seatIDs) {
		return BookingResult{}, newErr(NotFound, "one or more seats do not exist for this show")
	}

	byID := make(map[uint64]model.ShowSeat, len(rows))
	for _, r := range rows {
		byID[r.SeatID] = r
	}

	var failed []uint64
	var total int64
	for _, id := range seatIDs {
		row := byID[id]
		if row.IsLive(now) {
			failed = append(failed, id)
			continue
		}
		total += row.PriceCents
	}
	if len(failed) > 0 {
		return BookingResult{}, seatUnavailable(failed)
	}

	expiresAt := now.Add(lockDuration)
	bookingID, err := e.Bookings.InsertBooking(ctx, model.Booking{
		UserID:           userID,
		ShowID:           showID,
		SeatIDs:          seatIDs,
		TotalAmountCents: total,
		BookingStatus:    model.BookingPending,
		PaymentStatus:    model.PaymentPending,
		CreatedAt:        now,
		ExpiresAt:        expiresAt,
		UpdatedAt:        now,
	})
	if err != nil {
		return BookingResult{}, newErr(Timeout, "booking store insert failed: "+err.Error())
	}

	updates := make([]store.SeatUpdate, 0, len(seatIDs))
	for _, id := range seatIDs {
		row := byID[id]
		holder := row.HolderBookingID
		u := store.SeatUpdate{
			ShowID:         showID,
			SeatID:         id,
			ExpectedStatus: row.Status,
			ExpectedHolder: holder,
			NewStatus:      model.SeatLocked,
			NewHolder:      &bookingID,
			NewLockedUntil: &expiresAt,
		}
		if row.Status == model.SeatLocked {
			u.ExpiredOnly = true
		}
		updates = append(updates, u)
	}

	results, err := e.Seats.ConditionalUpdateSeats(ctx, now, updates)
	if err != nil {
		e.rollbackBooking(ctx, bookingID)
		return BookingResult{}, newErr(Timeout, "seat store update failed: "+err.Error())
	}

	var lost []uint64
	for _, r := range results {
		if !r.Applied {
			lost = append(lost, r.SeatID)
		}
	}
	if len(lost) > 0 {
		e.releaseSeats(ctx, now, showID, results, bookingID)
		e.rollbackBooking(ctx, bookingID)
		return BookingResult{}, newErr(Conflict, "lost the race for one or more seats")
	}

	return BookingResult{BookingID: bookingID, ExpiresAt: expiresAt, TotalAmount: total}, nil
}

// releaseSeats reverts any seat rows that were actually applied when a
// sibling update in the same batch lost its race, restoring them to
// AVAILABLE so the failed initiate leaves no partial lock behind.
func (e *Engine) releaseSeats(ctx context.Context, now time.Time, showID uint64, results []store.SeatUpdateResult, bookingID uint64) {
	var undo []store.SeatUpdate
	for _, r := range results {
		if !r.Applied {
			continue
		}
		undo = append(undo, store.SeatUpdate{
			ShowID:         showID,
			SeatID:         r.SeatID,
			ExpectedStatus: model.SeatLocked,
			ExpectedHolder: &bookingID,
			NewStatus:      model.SeatAvailable,
			NewHolder:      nil,
			NewLockedUntil: nil,
		})
	}
	if len(undo) == 0 {
		return
	}
	if _, err := e.Seats.ConditionalUpdateSeats(ctx, now, undo); err != nil {
		log.Printf("engine: failed to unwind partial lock for booking %d: %v", bookingID, err)
	}
}

func (e *Engine) rollbackBooking(ctx context.Context, bookingID uint64) {
	_, _, err := e.Bookings.UpdateBookingState(ctx, store.BookingUpdate{
		BookingID:      bookingID,
		ExpectedStatus: model.BookingPending,
		NewStatus:      model.BookingCancelled,
	})
	if err != nil {
		log.Printf("engine: failed to roll back booking %d: %v", bookingID, err)
	}
}

// ConfirmBooking implements spec.md §4.3.
func (e *Engine) ConfirmBooking(ctx context.Context, bookingID uint64, paymentRef string) error {
	b, err := e.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return newErr(NotFound, "booking not found")
	}

	release, err := e.Registry.AcquireCtx(ctx, b.ShowID)
	if err != nil {
		return newErr(Timeout, "deadline elapsed while waiting for show lock")
	}
	defer release()

	b, err = e.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return newErr(NotFound, "booking not found")
	}
	switch b.BookingStatus {
	case model.BookingConfirmed:
		return newErr(Terminal, "booking already confirmed")
	case model.BookingCancelled, model.BookingExpired:
		return newErr(Terminal, "booking is in a terminal state")
	}

	now := e.Now()
	if !now.Before(b.ExpiresAt) {
		return newErr(Expired, "booking's soft lock has elapsed")
	}

	updates := make([]store.SeatUpdate, 0, len(b.SeatIDs))
	for _, id := range b.SeatIDs {
		updates = append(updates, store.SeatUpdate{
			ShowID:         b.ShowID,
			SeatID:         id,
			ExpectedStatus: model.SeatLocked,
			ExpectedHolder: &bookingID,
			NewStatus:      model.SeatBooked,
			NewHolder:      &bookingID,
		})
	}
	results, err := e.Seats.ConditionalUpdateSeats(ctx, now, updates)
	if err != nil {
		return newErr(InvariantViolated, "seat store update failed during confirm: "+err.Error())
	}
	for _, r := range results {
		if !r.Applied {
			log.Printf("engine: INVARIANT_VIOLATED confirming booking %d: seat %d could not transition to BOOKED", bookingID, r.SeatID)
			return newErr(InvariantViolated, "a locked seat could not be confirmed")
		}
	}

	ref := paymentRef
	paid := model.PaymentCompleted
	applied, _, err := e.Bookings.UpdateBookingState(ctx, store.BookingUpdate{
		BookingID:        bookingID,
		ExpectedStatus:   model.BookingPending,
		NewStatus:        model.BookingConfirmed,
		NewPaymentStatus: &paid,
		NewPaymentRef:    &ref,
	})
	if err != nil {
		return newErr(InvariantViolated, "booking store update failed during confirm: "+err.Error())
	}
	if !applied {
		log.Printf("engine: INVARIANT_VIOLATED confirming booking %d: booking row changed out from under the show lock", bookingID)
		return newErr(InvariantViolated, "booking state changed unexpectedly during confirm")
	}
	return nil
}

// CancelBooking implements spec.md §4.4. refundNeeded is true when the
// caller (the HTTP handler or the payment coordinator) must drive a refund
// through the gateway after this call returns successfully.
func (e *Engine) CancelBooking(ctx context.Context, bookingID, userID uint64) (refundNeeded bool, err error) {
	b, err := e.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return false, newErr(NotFound, "booking not found")
	}
	if b.UserID != userID {
		return false, newErr(Unauthorized, "booking does not belong to this user")
	}

	release, err := e.Registry.AcquireCtx(ctx, b.ShowID)
	if err != nil {
		return false, newErr(Timeout, "deadline elapsed while waiting for show lock")
	}
	defer release()

	b, err = e.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return false, newErr(NotFound, "booking not found")
	}
	if b.UserID != userID {
		return false, newErr(Unauthorized, "booking does not belong to this user")
	}

	now := e.Now()

	switch b.BookingStatus {
	case model.BookingPending:
		e.releaseHeldSeats(ctx, now, b, model.SeatLocked)
		if _, _, err := e.Bookings.UpdateBookingState(ctx, store.BookingUpdate{
			BookingID:      bookingID,
			ExpectedStatus: model.BookingPending,
			NewStatus:      model.BookingCancelled,
		}); err != nil {
			return false, newErr(Timeout, "booking store update failed: "+err.Error())
		}
		return false, nil

	case model.BookingConfirmed:
		show, err := e.Shows.GetShow(ctx, b.ShowID)
		if err != nil {
			return false, newErr(NotFound, "show not found")
		}
		if now.Add(e.CancelGrace).After(show.StartsAt) {
			return false, newErr(NotCancellable, "too close to show start to cancel")
		}
		e.releaseHeldSeats(ctx, now, b, model.SeatBooked)
		refunded := model.PaymentRefunded
		if _, _, err := e.Bookings.UpdateBookingState(ctx, store.BookingUpdate{
			BookingID:        bookingID,
			ExpectedStatus:   model.BookingConfirmed,
			NewStatus:        model.BookingCancelled,
			NewPaymentStatus: &refunded,
		}); err != nil {
			return false, newErr(Timeout, "booking store update failed: "+err.Error())
		}
		return true, nil

	default:
		return false, newErr(NotCancellable, "booking is already cancelled or expired")
	}
}

func (e *Engine) releaseHeldSeats(ctx context.Context, now time.Time, b model.Booking, expectedStatus model.SeatStatus) {
	updates := make([]store.SeatUpdate, 0, len(b.SeatIDs))
	for _, id := range b.SeatIDs {
		updates = append(updates, store.SeatUpdate{
			ShowID:         b.ShowID,
			SeatID:         id,
			ExpectedStatus: expectedStatus,
			ExpectedHolder: &b.ID,
			NewStatus:      model.SeatAvailable,
			NewHolder:      nil,
			NewLockedUntil: nil,
		})
	}
	if _, err := e.Seats.ConditionalUpdateSeats(ctx, now, updates); err != nil {
		log.Printf("engine: failed to release seats for booking %d: %v", b.ID, err)
	}
}
