package repository

import (
	"context"
	"time"

	"github.com/vinayn0707/showtime-reservations/internal/model"
)

const dbTimeLayout = "2006-01-02 15:04:05"

// ShowLookup adapts ShowRepo's DB-facing, string-timestamp Show rows to the
// domain-facing model.Show the reservation engine reads, mirroring the
// teacher's own split between repository.Show (DB) and model.Show (domain).
type ShowLookup struct {
	Repo *ShowRepo
}

func NewShowLookup(repo *ShowRepo) *ShowLookup {
	return &ShowLookup{Repo: repo}
}

// GetShow implements engine.ShowLookup.
func (l *ShowLookup) GetShow(ctx context.Context, showID uint64) (model.Show, error) {
	s, err := l.Repo.GetByID(ctx, showID)
	if err != nil {
		return model.Show{}, err
	}
	startsAt, err := time.Parse(dbTimeLayout, s.StartsAt)
	if err != nil {
		return model.Show{}, err
	}
	endsAt, err := time.Parse(dbTimeLayout, s.EndsAt)
	if err != nil {
		return model.Show{}, err
	}
	return model.Show{
		ID:             s.ID,
		HallID:         s.HallID,
		Title:          s.Title,
		StartsAt:       startsAt,
		EndsAt:         endsAt,
		BasePriceCents: s.BasePriceCents,
		Status:         s.Status,
	}, nil
}
