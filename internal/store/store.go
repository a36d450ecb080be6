// Package store defines the persistence boundary the reservation engine
// depends on. The engine, reaper and payment coordinator are built against
// these interfaces only; internal/repository provides the MySQL-backed
// implementation and internal/store/fake an in-memory one for tests.
package store

import (
	"context"
	"time"

	"github.com/vinayn0707/showtime-reservations/internal/model"
)

// SeatUpdate describes a conditional write to one show-seat row, identified
// by the (ShowID, SeatID) pair spec.md §3 makes the row's real identity — a
// hall's physical seat has one show_seats row per show it is scheduled for,
// so SeatID alone never uniquely names a row. The write applies only if the
// row's current state matches Expected*; ExpectedStatus is always checked,
// ExpectedHolder and ExpiredOnly are optional refinements used by the engine
// to express "AVAILABLE, or LOCKED but stale".
type SeatUpdate struct {
	ShowID          uint64
	SeatID          uint64
	ExpectedStatus  model.SeatStatus
	ExpectedHolder  *uint64 // nil means "holder must be unset"
	ExpiredOnly     bool    // when ExpectedStatus is SeatLocked, also require LockedUntil <= now
	NewStatus       model.SeatStatus
	NewHolder       *uint64
	NewLockedUntil  *time.Time
}

// SeatUpdateResult reports the outcome of one conditional seat update.
type SeatUpdateResult struct {
	SeatID  uint64
	Applied bool
	Current model.ShowSeat
}

// SeatStore is the persistence contract for show-seat rows (spec.md §6).
type SeatStore interface {
	// GetSeats loads the current rows for showID/seatIDs in one read. The
	// returned slice may be shorter than seatIDs if some are unknown; the
	// engine detects this by counting.
	GetSeats(ctx context.Context, showID uint64, seatIDs []uint64) ([]model.ShowSeat, error)

	// ConditionalUpdateSeats applies every update in updates, each against
	// the row's state as of "now"; a row not matching its predicate is left
	// untouched and reported as not Applied. Implementations MUST apply
	// each update atomically per row.
	ConditionalUpdateSeats(ctx context.Context, now time.Time, updates []SeatUpdate) ([]SeatUpdateResult, error)

	// SelectExpiredLockedSeats returns up to limit seats with
	// status=LOCKED and lockedUntil<=now, ordered by showID to let the
	// reaper batch its show-mutex acquisitions.
	SelectExpiredLockedSeats(ctx context.Context, now time.Time, limit int) ([]model.ShowSeat, error)

	// ListSeatIDs returns every seat id provisioned for showID, used by the
	// query surface to compute occupancy without the caller needing to know
	// the hall's seat inventory in advance.
	ListSeatIDs(ctx context.Context, showID uint64) ([]uint64, error)
}

// BookingUpdate describes a conditional transition of one booking row.
type BookingUpdate struct {
	BookingID            uint64
	ExpectedStatus       model.BookingStatus
	NewStatus            model.BookingStatus
	NewPaymentStatus     *model.PaymentStatus
	NewPaymentRef        *string
	ClearPaymentRef      bool
}

// BookingStore is the persistence contract for booking rows (spec.md §6).
type BookingStore interface {
	// InsertBooking creates a new PENDING booking row with its seat set
	// and returns the assigned id.
	InsertBooking(ctx context.Context, b model.Booking) (uint64, error)

	// GetBooking loads one booking by id, or store.ErrNotFound.
	GetBooking(ctx context.Context, id uint64) (model.Booking, error)

	// UpdateBookingState applies u.NewStatus/NewPaymentStatus/NewPaymentRef
	// only if the row's current bookingStatus equals u.ExpectedStatus,
	// returning whether the update applied and the row as it stands now.
	UpdateBookingState(ctx context.Context, u BookingUpdate) (applied bool, current model.Booking, err error)

	// SelectExpiredPendingBookings returns up to limit bookings with
	// bookingStatus=PENDING and expiresAt<=now.
	SelectExpiredPendingBookings(ctx context.Context, now time.Time, limit int) ([]model.Booking, error)

	// ListByUser returns a user's bookings, most recent first.
	ListByUser(ctx context.Context, userID uint64, limit int) ([]model.Booking, error)

	// ListByShow returns every booking for a show, most recent first. Used
	// by owner-facing reporting and by the query surface's revenue
	// aggregate; not on the engine's write path.
	ListByShow(ctx context.Context, showID uint64, limit int) ([]model.Booking, error)
}

// ErrNotFound is returned by GetBooking (and may be wrapped by SeatStore
// callers) when the requested row does not exist.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "store: not found" }
