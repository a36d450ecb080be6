// Package fake provides in-memory SeatStore/BookingStore implementations
// used by internal/engine, internal/reaper and internal/query tests. No
// example in the retrieval pack ships a test double for its repositories;
// this package is new, built to the exact shape of internal/store's
// interfaces.
package fake

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vinayn0707/showtime-reservations/internal/model"
	"github.com/vinayn0707/showtime-reservations/internal/store"
)

// SeatStore is an in-memory store.SeatStore keyed by (showID, seatID).
type SeatStore struct {
	mu    sync.Mutex
	seats map[uint64]map[uint64]model.ShowSeat
}

// NewSeatStore builds a SeatStore seeded with the given rows.
func NewSeatStore(rows []model.ShowSeat) *SeatStore {
	s := &SeatStore{seats: make(map[uint64]map[uint64]model.ShowSeat)}
	for _, r := range rows {
		s.Seed(r)
	}
	return s
}

// Seed inserts or overwrites one seat row directly, bypassing conditional
// checks; used to set up test fixtures.
func (s *SeatStore) Seed(r model.ShowSeat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byShow, ok := s.seats[r.ShowID]
	if !ok {
		byShow = make(map[uint64]model.ShowSeat)
		s.seats[r.ShowID] = byShow
	}
	byShow[r.SeatID] = r
}

func (s *SeatStore) GetSeats(_ context.Context, showID uint64, seatIDs []uint64) ([]model.ShowSeat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byShow := s.seats[showID]
	out := make([]model.ShowSeat, 0, len(seatIDs))
	for _, id := range seatIDs {
		if row, ok := byShow[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func matchesHolder(row model.ShowSeat, expected *uint64) bool {
	if expected == nil {
		return row.HolderBookingID == nil
	}
	return row.HolderBookingID != nil && *row.HolderBookingID == *expected
}

func (s *SeatStore) ConditionalUpdateSeats(_ context.Context, now time.Time, updates []store.SeatUpdate) ([]store.SeatUpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]store.SeatUpdateResult, 0, len(updates))
	for _, u := range updates {
		byShow, ok := s.seats[u.ShowID]
		if !ok {
			results = append(results, store.SeatUpdateResult{SeatID: u.SeatID, Applied: false})
			continue
		}
		row, exists := byShow[u.SeatID]
		if !exists {
			results = append(results, store.SeatUpdateResult{SeatID: u.SeatID, Applied: false})
			continue
		}

		match := row.Status == u.ExpectedStatus && matchesHolder(row, u.ExpectedHolder)
		if match && u.ExpiredOnly {
			match = row.LockedUntil != nil && !row.LockedUntil.After(now)
		}
		if !match {
			results = append(results, store.SeatUpdateResult{SeatID: u.SeatID, Applied: false, Current: row})
			continue
		}

		row.Status = u.NewStatus
		row.HolderBookingID = u.NewHolder
		row.LockedUntil = u.NewLockedUntil
		row.UpdatedAt = now
		byShow[u.SeatID] = row
		results = append(results, store.SeatUpdateResult{SeatID: u.SeatID, Applied: true, Current: row})
	}
	return results, nil
}

func (s *SeatStore) SelectExpiredLockedSeats(_ context.Context, now time.Time, limit int) ([]model.ShowSeat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.ShowSeat
	for _, byShow := range s.seats {
		for _, row := range byShow {
			if row.Status == model.SeatLocked && row.LockedUntil != nil && !row.LockedUntil.After(now) {
				out = append(out, row)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ShowID != out[j].ShowID {
			return out[i].ShowID < out[j].ShowID
		}
		return out[i].SeatID < out[j].SeatID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *SeatStore) ListSeatIDs(_ context.Context, showID uint64) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byShow := s.seats[showID]
	out := make([]uint64, 0, len(byShow))
	for id := range byShow {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// BookingStore is an in-memory store.BookingStore.
type BookingStore struct {
	mu      sync.Mutex
	nextID  uint64
	byID    map[uint64]model.Booking
}

// NewBookingStore builds an empty BookingStore.
func NewBookingStore() *BookingStore {
	return &BookingStore{byID: make(map[uint64]model.Booking)}
}

func (b *BookingStore) InsertBooking(_ context.Context, row model.Booking) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	row.ID = b.nextID
	b.byID[row.ID] = row
	return row.ID, nil
}

func (b *BookingStore) GetBooking(_ context.Context, id uint64) (model.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	row, ok := b.byID[id]
	if !ok {
		return model.Booking{}, store.ErrNotFound
	}
	return row, nil
}

func (b *BookingStore) UpdateBookingState(_ context.Context, u store.BookingUpdate) (bool, model.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	row, ok := b.byID[u.BookingID]
	if !ok {
		return false, model.Booking{}, store.ErrNotFound
	}
	if row.BookingStatus != u.ExpectedStatus {
		return false, row, nil
	}
	row.BookingStatus = u.NewStatus
	if u.NewPaymentStatus != nil {
		row.PaymentStatus = *u.NewPaymentStatus
	}
	if u.ClearPaymentRef {
		row.PaymentRef = nil
	} else if u.NewPaymentRef != nil {
		row.PaymentRef = u.NewPaymentRef
	}
	row.UpdatedAt = time.Now()
	b.byID[u.BookingID] = row
	return true, row, nil
}

func (b *BookingStore) SelectExpiredPendingBookings(_ context.Context, now time.Time, limit int) ([]model.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.Booking
	for _, row := range b.byID {
		if row.BookingStatus == model.BookingPending && !row.ExpiresAt.After(now) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (b *BookingStore) ListByUser(_ context.Context, userID uint64, limit int) ([]model.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.Booking
	for _, row := range b.byID {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (b *BookingStore) ListByShow(_ context.Context, showID uint64, limit int) ([]model.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.Booking
	for _, row := range b.byID {
		if row.ShowID == showID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ShowLookup is a fixed in-memory catalog used by tests.
type ShowLookup struct {
	mu    sync.Mutex
	shows map[uint64]model.Show
}

func NewShowLookup(shows ...model.Show) *ShowLookup {
	l := &ShowLookup{shows: make(map[uint64]model.Show)}
	for _, s := range shows {
		l.shows[s.ID] = s
	}
	return l
}

func (l *ShowLookup) GetShow(_ context.Context, showID uint64) (model.Show, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.shows[showID]
	if !ok {
		return model.Show{}, store.ErrNotFound
	}
	return s, nil
}
