package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vinayn0707/showtime-reservations/internal/query"
	"github.com/vinayn0707/showtime-reservations/internal/repository"
	"github.com/vinayn0707/showtime-reservations/internal/store"
)

// OwnerBookingHandler lets a hall owner inspect bookings placed against
// their own shows, and query occupancy/revenue aggregates. It supersedes
// the old reservation-table-backed OwnerReservationHandler now that
// bookings/booking_seats replace reservations/reservation_seats as the
// persisted state.
type OwnerBookingHandler struct {
	Bookings store.BookingStore
	ShowRepo *repository.ShowRepo
	Query    *query.Surface
}

// NewOwnerBookingHandler constructs an OwnerBookingHandler and panics if any
// dependency is nil.
func NewOwnerBookingHandler(bookings store.BookingStore, showRepo *repository.ShowRepo, q *query.Surface) *OwnerBookingHandler {
	if bookings == nil || showRepo == nil || q == nil {
		panic("nil dependency passed to NewOwnerBookingHandler")
	}
	return &OwnerBookingHandler{Bookings: bookings, ShowRepo: showRepo, Query: q}
}

// authorizeShow verifies the caller owns showID (from the :id route param).
// On any failure it writes the appropriate error response itself and
// returns ok=false; callers should just `return resp` in that case.
func (h *OwnerBookingHandler) authorizeShow(c echo.Context) (showID uint64, ok bool, resp error) {
	ownerID, err := getUserID(c)
	if err != nil {
		return 0, false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err = strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showID == 0 {
		return 0, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	owned, err := h.ShowRepo.IsOwnedBy(c.Request().Context(), showID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return 0, false, c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return 0, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify ownership"})
	}
	if !owned {
		return 0, false, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return showID, true, nil
}

// ListShowBookings handles GET /v1/shows/:id/bookings for an owner.
func (h *OwnerBookingHandler) ListShowBookings(c echo.Context) error {
	showID, ok, resp := h.authorizeShow(c)
	if !ok {
		return resp
	}
	bookings, err := h.Bookings.ListByShow(c.Request().Context(), showID, 200)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": bookings, "count": len(bookings)})
}

// ShowOccupancy handles GET /v1/shows/:id/occupancy for an owner.
func (h *OwnerBookingHandler) ShowOccupancy(c echo.Context) error {
	showID, ok, resp := h.authorizeShow(c)
	if !ok {
		return resp
	}
	ctx := c.Request().Context()
	seatIDs, err := h.Query.Seats.ListSeatIDs(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seat inventory"})
	}
	occupancy, err := h.Query.Occupancy(ctx, showID, seatIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute occupancy"})
	}
	return c.JSON(http.StatusOK, echo.Map{"showId": showID, "seatCount": len(seatIDs), "occupancy": occupancy})
}

// ShowRevenue handles GET /v1/shows/:id/revenue for an owner.
func (h *OwnerBookingHandler) ShowRevenue(c echo.Context) error {
	showID, ok, resp := h.authorizeShow(c)
	if !ok {
		return resp
	}
	ctx := c.Request().Context()
	bookings, err := h.Bookings.ListByShow(ctx, showID, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	revenue := h.Query.Revenue(ctx, bookings)
	return c.JSON(http.StatusOK, echo.Map{"showId": showID, "revenueCents": revenue})
}
