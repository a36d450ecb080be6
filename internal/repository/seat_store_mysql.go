package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vinayn0707/showtime-reservations/internal/model"
	"github.com/vinayn0707/showtime-reservations/internal/store"
)

// MySQLSeatStore implements store.SeatStore against the show_seats table,
// adapted from ShowSeatRepo's hand-built multi-row INSERT style but
// generalized from the FREE/HELD/RESERVED three-state model to the
// AVAILABLE/LOCKED/BOOKED/MAINTENANCE lifecycle the reservation engine
// requires, with holder_booking_id/locked_until columns added.
type MySQLSeatStore struct {
	db *sql.DB
}

func NewMySQLSeatStore(db *sql.DB) *MySQLSeatStore {
	return &MySQLSeatStore{db: db}
}

func scanShowSeat(row interface {
	Scan(dest ...interface{}) error
}) (model.ShowSeat, error) {
	var s model.ShowSeat
	var holder sql.NullInt64
	var lockedUntil sql.NullTime
	err := row.Scan(&s.ID, &s.ShowID, &s.SeatID, &s.Status, &holder, &lockedUntil, &s.PriceCents, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.ShowSeat{}, err
	}
	if holder.Valid {
		h := uint64(holder.Int64)
		s.HolderBookingID = &h
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		s.LockedUntil = &t
	}
	return s, nil
}

const seatColumns = `id, show_id, seat_id, status, holder_booking_id, locked_until, price_cents, version, created_at, updated_at`

func (s *MySQLSeatStore) GetSeats(ctx context.Context, showID uint64, seatIDs []uint64) ([]model.ShowSeat, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + seatColumns + ` FROM show_seats WHERE show_id = ? AND seat_id IN (` + placeholders(len(seatIDs)) + `)`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ShowSeat
	for rows.Next() {
		row, err := scanShowSeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, 0, n*2-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '?')
	}
	return string(buf)
}

// ConditionalUpdateSeats applies each update inside its own single-row
// UPDATE ... WHERE clause encoding the expected predicate, exactly the
// primitive spec.md §6 requires: a write that only takes effect if the
// row's observed state still matches.
func (s *MySQLSeatStore) ConditionalUpdateSeats(ctx context.Context, now time.Time, updates []store.SeatUpdate) ([]store.SeatUpdateResult, error) {
	results := make([]store.SeatUpdateResult, 0, len(updates))
	for _, u := range updates {
		applied, err := s.applyOne(ctx, now, u)
		if err != nil {
			return nil, err
		}
		current, err := s.getOne(ctx, u.ShowID, u.SeatID)
		if err != nil {
			return nil, err
		}
		results = append(results, store.SeatUpdateResult{SeatID: u.SeatID, Applied: applied, Current: current})
	}
	return results, nil
}

func (s *MySQLSeatStore) applyOne(ctx context.Context, now time.Time, u store.SeatUpdate) (bool, error) {
	query := `UPDATE show_seats SET status = ?, holder_booking_id = ?, locked_until = ?, updated_at = ?
		WHERE show_id = ? AND seat_id = ? AND status = ?`
	args := []interface{}{u.NewStatus, u.NewHolder, u.NewLockedUntil, now, u.ShowID, u.SeatID, u.ExpectedStatus}

	if u.ExpectedHolder == nil {
		query += ` AND holder_booking_id IS NULL`
	} else {
		query += ` AND holder_booking_id = ?`
		args = append(args, *u.ExpectedHolder)
	}
	if u.ExpiredOnly {
		query += ` AND locked_until <= ?`
		args = append(args, now)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *MySQLSeatStore) getOne(ctx context.Context, showID, seatID uint64) (model.ShowSeat, error) {
	query := `SELECT ` + seatColumns + ` FROM show_seats WHERE show_id = ? AND seat_id = ?`
	return scanShowSeat(s.db.QueryRowContext(ctx, query, showID, seatID))
}

func (s *MySQLSeatStore) ListSeatIDs(ctx context.Context, showID uint64) ([]uint64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seat_id FROM show_seats WHERE show_id = ? ORDER BY seat_id`, showID)
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

func (s *MySQLSeatStore) SelectExpiredLockedSeats(ctx context.Context, now time.Time, limit int) ([]model.ShowSeat, error) {
	query := `SELECT ` + seatColumns + ` FROM show_seats WHERE status = ? AND locked_until <= ? ORDER BY show_id, seat_id LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, model.SeatLocked, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ShowSeat
	for rows.Next() {
		row, err := scanShowSeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
