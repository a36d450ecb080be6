// Package handler — public seat inventory and live availability endpoints.
// Split out from public_browse.go the way owner_*.go splits one file per
// resource area.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vinayn0707/showtime-reservations/internal/model"
	"github.com/vinayn0707/showtime-reservations/internal/repository"
)

// PublicSeat represents one physical seat of a hall in a flat listing.
type PublicSeat struct {
	ID         uint64 `json:"id"`
	RowLabel   string `json:"row"`
	SeatNumber uint32 `json:"number"`
	SeatType   string `json:"type"`
	IsActive   bool   `json:"isActive"`
}

// GetPublicHallSeats handles GET /v1/halls/:id/seats. It returns the flat
// seat inventory of a hall; guests use this to preview a hall's seat types
// before picking a show. The optional ?active=true|false filters by
// IsActive.
func (h *PublicHandler) GetPublicHallSeats(c echo.Context) error {
	ctx := c.Request().Context()
	hallID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.HallRepo.GetByID(ctx, hallID); err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.SeatRepo.GetByHall(ctx, hallID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var filterActive *bool
	if raw := c.QueryParam("active"); raw != "" {
		if v, parseErr := strconv.ParseBool(raw); parseErr == nil {
			filterActive = &v
		}
	}

	out := make([]PublicSeat, 0, len(seats))
	for _, s := range seats {
		if filterActive != nil && s.IsActive != *filterActive {
			continue
		}
		out = append(out, PublicSeat{ID: s.ID, RowLabel: s.RowLabel, SeatNumber: s.SeatNumber, SeatType: s.SeatType, IsActive: s.IsActive})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// PublicHallLayoutRow groups a hall's seats by row for rendering a seat map.
type PublicHallLayoutRow struct {
	RowLabel string       `json:"row"`
	Seats    []PublicSeat `json:"seats"`
}

// GetPublicHallLayout handles GET /v1/halls/:id/seats/layout, returning the
// hall's seats grouped by row and ordered by seat number within each row.
func (h *PublicHandler) GetPublicHallLayout(c echo.Context) error {
	ctx := c.Request().Context()
	hallID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.HallRepo.GetByID(ctx, hallID); err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.SeatRepo.GetByHall(ctx, hallID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	order := make([]string, 0)
	byRow := make(map[string][]PublicSeat)
	for _, s := range seats {
		if _, seen := byRow[s.RowLabel]; !seen {
			order = append(order, s.RowLabel)
		}
		byRow[s.RowLabel] = append(byRow[s.RowLabel], PublicSeat{ID: s.ID, RowLabel: s.RowLabel, SeatNumber: s.SeatNumber, SeatType: s.SeatType, IsActive: s.IsActive})
	}
	rows := make([]PublicHallLayoutRow, 0, len(order))
	for _, label := range order {
		rows = append(rows, PublicHallLayoutRow{RowLabel: label, Seats: byRow[label]})
	}
	return c.JSON(http.StatusOK, echo.Map{"rows": rows})
}

// PublicShowSeat reports one seat's live booking availability for a show.
type PublicShowSeat struct {
	SeatID     uint64 `json:"seatId"`
	RowLabel   string `json:"row"`
	SeatNumber uint32 `json:"number"`
	SeatType   string `json:"type"`
	PriceCents int64  `json:"priceCents"`
	Available  bool   `json:"available"`
}

// GetPublicShowSeats handles GET /v1/shows/:id/seats: the live seat map a
// guest sees before starting a booking. Availability is read straight from
// the Seat Store, the same source of truth the reservation engine writes
// to, so this never drifts from what InitiateBooking would actually see.
func (h *PublicHandler) GetPublicShowSeats(c echo.Context) error {
	ctx := c.Request().Context()
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	show, err := h.ShowRepo.GetByID(ctx, showID)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.SeatRepo.GetByHall(ctx, show.HallID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seatIDs := make([]uint64, len(seats))
	for i, s := range seats {
		seatIDs[i] = s.ID
	}
	rows, err := h.Seats.GetSeats(ctx, showID, seatIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	byID := make(map[uint64]model.ShowSeat, len(rows))
	for _, r := range rows {
		byID[r.SeatID] = r
	}

	now := time.Now()
	out := make([]PublicShowSeat, 0, len(seats))
	for _, s := range seats {
		row, ok := byID[s.ID]
		available := true
		var price int64
		if ok {
			available = !row.IsLive(now)
			price = row.PriceCents
		}
		out = append(out, PublicShowSeat{
			SeatID:     s.ID,
			RowLabel:   s.RowLabel,
			SeatNumber: s.SeatNumber,
			SeatType:   s.SeatType,
			PriceCents: price,
			Available:  available,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
