// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully confirmed.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID        uint64   `json:"booking_id"`
    UserID           uint64   `json:"user_id"`
    ShowID           uint64   `json:"show_id"`
    CinemaID         uint64   `json:"cinema_id"`
    CinemaName       string   `json:"cinema_name"`
    HallID           uint64   `json:"hall_id"`
    HallName         string   `json:"hall_name"`
    MovieTitle       string   `json:"movie_title"`
    StartsAt         string   `json:"starts_at"`
    EndsAt           string   `json:"ends_at"`
    SeatLabels       []string `json:"seats"`
    TotalAmountCents int64    `json:"total_amount_cents"`
    ConfirmedAt      string   `json:"confirmed_at"`
}

// BookingExpiredEvent is published when the Reaper transitions a PENDING
// booking to EXPIRED because its soft lock lapsed before the customer
// confirmed payment.
type BookingExpiredEvent struct {
    BookingID uint64   `json:"booking_id"`
    UserID    uint64   `json:"user_id"`
    ShowID    uint64   `json:"show_id"`
    SeatIDs   []uint64 `json:"seat_ids"`
    ExpiredAt string   `json:"expired_at"`
}