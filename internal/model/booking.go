package model

import "time"

// BookingStatus is the lifecycle state of a Booking. CONFIRMED, CANCELLED
// and EXPIRED are absorbing: once reached, a booking never transitions
// again.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingExpired   BookingStatus = "EXPIRED"
)

// IsTerminal reports whether s is one of the absorbing booking states.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingConfirmed || s == BookingCancelled || s == BookingExpired
}

// PaymentStatus tracks the payment lifecycle of a Booking. The reservation
// engine sets it together with the booking state: COMPLETED on confirm,
// REFUNDED when a confirmed booking is cancelled.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

// Booking records a user's attempt to reserve one or more seats for a
// show. A booking owns its seat set through BookingSeat rows, never
// through a live pointer.
//
// Fields:
//
//	ID               – primary key identifier.
//	UserID           – user who initiated the booking.
//	ShowID           – show being booked.
//	SeatIDs          – ordered, non-empty set of seat ids (ShowSeat.SeatID within ShowID) held by this booking.
//	TotalAmountCents – sum of the per-seat price at initiate time.
//	BookingStatus    – PENDING, CONFIRMED, CANCELLED or EXPIRED.
//	PaymentStatus    – PENDING, PROCESSING, COMPLETED, FAILED or REFUNDED.
//	PaymentRef       – external payment reference, set on confirm.
//	CreatedAt        – creation timestamp.
//	ExpiresAt        – soft-lock deadline; only meaningful while PENDING.
//	UpdatedAt        – last update timestamp.
type Booking struct {
	ID               uint64
	UserID           uint64
	ShowID           uint64
	SeatIDs          []uint64
	TotalAmountCents int64
	BookingStatus    BookingStatus
	PaymentStatus    PaymentStatus
	PaymentRef       *string
	CreatedAt        time.Time
	ExpiresAt        time.Time
	UpdatedAt        time.Time
}

// BookingSeat links a booking to one show-seat, recording the price at
// the time it was locked so later price changes never affect an
// in-flight or completed booking.
type BookingSeat struct {
	ID         uint64    // booking_seats.id
	BookingID  uint64    // booking_seats.booking_id
	ShowID     uint64    // booking_seats.show_id
	SeatID     uint64    // booking_seats.seat_id
	PriceCents int64     // booking_seats.price_cents
	CreatedAt  time.Time // booking_seats.created_at
}
