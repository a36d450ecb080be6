package model

import "time"

// SeatStatus is the lifecycle state of a ShowSeat.
type SeatStatus string

const (
	SeatAvailable  SeatStatus = "AVAILABLE"
	SeatLocked     SeatStatus = "LOCKED"
	SeatBooked     SeatStatus = "BOOKED"
	SeatMaintained SeatStatus = "MAINTENANCE"
)

// ShowSeat links a seat to a particular show and tracks availability,
// pricing and the soft-lock/hard-book state used by the reservation
// engine. There is one show_seat record for every seat in a hall when a
// show is created; it is never deleted while the show exists.
//
// Fields:
//
//	ID              – primary key identifier.
//	ShowID          – the show to which this seat belongs.
//	SeatID          – the physical seat being made available.
//	Status          – AVAILABLE, LOCKED, BOOKED or MAINTENANCE.
//	HolderBookingID – the booking currently holding this seat; only set
//	                  when Status is LOCKED or BOOKED.
//	LockedUntil     – soft-lock expiry; only set when Status is LOCKED.
//	PriceCents      – price in cents for this particular seat.
//	Version         – version column, seeded at 1 when the show is created;
//	                  seat updates neither check nor bump it (concurrent
//	                  updates are guarded by store.SeatUpdate predicates).
//	CreatedAt       – timestamp when the record was created.
//	UpdatedAt       – timestamp when the record was last updated.
type ShowSeat struct {
	ID              uint64
	ShowID          uint64
	SeatID          uint64
	Status          SeatStatus
	HolderBookingID *uint64
	LockedUntil     *time.Time
	PriceCents      int64
	Version         uint32
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsLive reports whether the seat is unavailable to a new booking attempt
// as of now, treating a stale lock (LockedUntil <= now) as available.
func (s ShowSeat) IsLive(now time.Time) bool {
	switch s.Status {
	case SeatBooked, SeatMaintained:
		return true
	case SeatLocked:
		return s.LockedUntil != nil && s.LockedUntil.After(now)
	default:
		return false
	}
}

// HeldBy reports whether the seat is currently LOCKED or BOOKED to bookingID.
func (s ShowSeat) HeldBy(bookingID uint64) bool {
	return s.HolderBookingID != nil && *s.HolderBookingID == bookingID
}
