package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/vinayn0707/showtime-reservations/internal/model"
	"github.com/vinayn0707/showtime-reservations/internal/store"
)

// MySQLBookingStore implements store.BookingStore against the bookings and
// booking_seats tables, adapted from the teacher's insert-then-reselect
// idiom for writing a parent row and its child seat rows inside one
// transaction.
type MySQLBookingStore struct {
	db *sql.DB
}

func NewMySQLBookingStore(db *sql.DB) *MySQLBookingStore {
	return &MySQLBookingStore{db: db}
}

const bookingColumns = `id, user_id, show_id, total_amount_cents, booking_status, payment_status, payment_ref, created_at, expires_at, updated_at`

func scanBooking(row interface {
	Scan(dest ...interface{}) error
}) (model.Booking, error) {
	var b model.Booking
	var paymentRef sql.NullString
	err := row.Scan(&b.ID, &b.UserID, &b.ShowID, &b.TotalAmountCents, &b.BookingStatus, &b.PaymentStatus, &paymentRef, &b.CreatedAt, &b.ExpiresAt, &b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	if paymentRef.Valid {
		b.PaymentRef = &paymentRef.String
	}
	return b, nil
}

// InsertBooking writes the booking row and its booking_seats rows inside a
// single transaction, mirroring reservation_repository.go's CreateTx.
func (s *MySQLBookingStore) InsertBooking(ctx context.Context, row model.Booking) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, show_id, total_amount_cents, booking_status, payment_status, payment_ref, created_at, expires_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.UserID, row.ShowID, row.TotalAmountCents, row.BookingStatus, row.PaymentStatus, row.PaymentRef, row.CreatedAt, row.ExpiresAt, row.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	bookingID := uint64(id)

	if len(row.SeatIDs) > 0 {
		query := `INSERT INTO booking_seats (booking_id, show_id, seat_id, price_cents, created_at) VALUES `
		args := make([]interface{}, 0, len(row.SeatIDs)*5)
		perSeat := row.TotalAmountCents / int64(len(row.SeatIDs))
		for i, seatID := range row.SeatIDs {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?)"
			args = append(args, bookingID, row.ShowID, seatID, perSeat, row.CreatedAt)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return bookingID, nil
}

func (s *MySQLBookingStore) GetBooking(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(s.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Booking{}, store.ErrNotFound
		}
		return model.Booking{}, err
	}
	seatIDs, err := s.seatIDsFor(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	b.SeatIDs = seatIDs
	return b, nil
}

func (s *MySQLBookingStore) seatIDsFor(ctx context.Context, bookingID uint64) ([]uint64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seat_id FROM booking_seats WHERE booking_id = ? ORDER BY seat_id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// UpdateBookingState applies a conditional single-row UPDATE keyed on the
// booking's expected current status, the same compare-and-swap primitive
// MySQLSeatStore.applyOne uses for seats.
func (s *MySQLBookingStore) UpdateBookingState(ctx context.Context, u store.BookingUpdate) (bool, model.Booking, error) {
	set := []string{"booking_status = ?", "updated_at = ?"}
	args := []interface{}{u.NewStatus, time.Now()}
	if u.NewPaymentStatus != nil {
		set = append(set, "payment_status = ?")
		args = append(args, *u.NewPaymentStatus)
	}
	if u.ClearPaymentRef {
		set = append(set, "payment_ref = NULL")
	} else if u.NewPaymentRef != nil {
		set = append(set, "payment_ref = ?")
		args = append(args, *u.NewPaymentRef)
	}

	query := "UPDATE bookings SET " + strings.Join(set, ", ") + " WHERE id = ? AND booking_status = ?"
	args = append(args, u.BookingID, u.ExpectedStatus)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, model.Booking{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, model.Booking{}, err
	}

	current, err := s.GetBooking(ctx, u.BookingID)
	if err != nil {
		return false, model.Booking{}, err
	}
	return n == 1, current, nil
}

func (s *MySQLBookingStore) SelectExpiredPendingBookings(ctx context.Context, now time.Time, limit int) ([]model.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE booking_status = ? AND expires_at <= ? ORDER BY id LIMIT ?`,
		model.BookingPending, now, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanAllWithSeats(ctx, rows)
}

func (s *MySQLBookingStore) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanAllWithSeats(ctx, rows)
}

func (s *MySQLBookingStore) ListByShow(ctx context.Context, showID uint64, limit int) ([]model.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE show_id = ? ORDER BY created_at DESC LIMIT ?`,
		showID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanAllWithSeats(ctx, rows)
}

func (s *MySQLBookingStore) scanAllWithSeats(ctx context.Context, rows *sql.Rows) ([]model.Booking, error) {
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		seatIDs, err := s.seatIDsFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].SeatIDs = seatIDs
	}
	return out, nil
}
