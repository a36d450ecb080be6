package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vinayn0707/showtime-reservations/internal/engine"
	"github.com/vinayn0707/showtime-reservations/internal/model"
	"github.com/vinayn0707/showtime-reservations/internal/payment"
	"github.com/vinayn0707/showtime-reservations/internal/query"
	"github.com/vinayn0707/showtime-reservations/internal/queue"
	queuepublisher "github.com/vinayn0707/showtime-reservations/internal/service"
)

// BookingHandler exposes the reservation engine, payment coordinator and
// query surface over HTTP, replacing customer_reservation.go's inline
// transaction orchestration with delegation to internal/engine.
type BookingHandler struct {
	Engine      *engine.Engine
	Coordinator *payment.Coordinator
	Query       *query.Surface
	LockMinutes int
}

// NewBookingHandler constructs a BookingHandler and panics if any dependency
// is nil, following the teacher's NewXxxHandler convention.
func NewBookingHandler(eng *engine.Engine, coord *payment.Coordinator, q *query.Surface, lockMinutes int) *BookingHandler {
	if eng == nil || coord == nil || q == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	if lockMinutes <= 0 {
		lockMinutes = 15
	}
	return &BookingHandler{Engine: eng, Coordinator: coord, Query: q, LockMinutes: lockMinutes}
}

type holdRequest struct {
	SeatIDs []uint64 `json:"seatIds"`
}

// InitiateBooking handles POST /v1/shows/:id/bookings.
func (h *BookingHandler) InitiateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req holdRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	res, err := h.Engine.InitiateBooking(c.Request().Context(), userID, showID, req.SeatIDs, time.Duration(h.LockMinutes)*time.Minute)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"bookingId":        res.BookingID,
		"expiresAt":        res.ExpiresAt,
		"totalAmountCents": res.TotalAmount,
	})
}

type confirmRequest struct {
	PaymentRef string `json:"paymentRef"`
}

// ConfirmBooking handles POST /v1/bookings/:id/confirm. It drives the
// payment coordinator, which itself calls the engine's confirm/cancel path
// on the gateway's outcome, rather than confirming directly — matching
// spec.md §4.6's "coordinator drives continuations" design.
func (h *BookingHandler) ConfirmBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	b, err := h.Query.GetBooking(c.Request().Context(), bookingID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}

	if err := h.Coordinator.Drive(c.Request().Context(), bookingID, userID, b.TotalAmountCents); err != nil {
		return writeEngineError(c, err)
	}
	h.Query.InvalidateBooking(c.Request().Context(), bookingID)

	final, err := h.Query.GetBooking(c.Request().Context(), bookingID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if final.BookingStatus == model.BookingConfirmed {
		publishBookingConfirmed(final)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookingId": final.ID, "bookingStatus": final.BookingStatus, "paymentStatus": final.PaymentStatus})
}

// CancelBooking handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	refundNeeded, err := h.Engine.CancelBooking(c.Request().Context(), bookingID, userID)
	if err != nil {
		return writeEngineError(c, err)
	}
	h.Query.InvalidateBooking(c.Request().Context(), bookingID)

	if refundNeeded {
		b, err := h.Query.GetBooking(c.Request().Context(), bookingID)
		if err == nil && b.PaymentRef != nil {
			// The request's context is canceled the moment this handler
			// returns, so the refund runs against its own background
			// context rather than c.Request().Context() (same reasoning as
			// publishBookingConfirmed below).
			paymentRef := *b.PaymentRef
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if refErr := h.Coordinator.Gateway.Refund(ctx, bookingID, paymentRef, b.TotalAmountCents); refErr != nil {
					_ = refErr // logged by the gateway implementation
				}
			}()
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": true})
}

// UserBookings handles GET /v1/my-bookings.
func (h *BookingHandler) UserBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Query.UserBookings(c.Request().Context(), userID, 100)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// GetBooking handles GET /v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Query.GetBooking(c.Request().Context(), bookingID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if b.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// publishBookingConfirmed fires the booking.confirmed event to RabbitMQ so
// the log consumer can record it. Failures are logged by the publisher
// itself and never block the HTTP response.
func publishBookingConfirmed(b model.Booking) {
	seatLabels := make([]string, len(b.SeatIDs))
	for i, id := range b.SeatIDs {
		seatLabels[i] = strconv.FormatUint(id, 10)
	}
	go func() {
		_ = queuepublisher.PublishBookingConfirmed(context.Background(), queue.BookingConfirmedEvent{
			BookingID:        b.ID,
			UserID:           b.UserID,
			ShowID:           b.ShowID,
			SeatLabels:       seatLabels,
			TotalAmountCents: b.TotalAmountCents,
			ConfirmedAt:      b.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}()
}

func writeEngineError(c echo.Context, err error) error {
	engErr, ok := err.(*engine.Error)
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	body := echo.Map{"errorCode": string(engErr.Kind), "message": engErr.Message}
	if len(engErr.FailedSeatIDs) > 0 {
		body["details"] = echo.Map{"failedSeatIds": engErr.FailedSeatIDs}
	}
	switch engErr.Kind {
	case engine.NotFound:
		return c.JSON(http.StatusNotFound, body)
	case engine.SeatUnavailable:
		return c.JSON(http.StatusConflict, body)
	case engine.Conflict:
		return c.JSON(http.StatusConflict, body)
	case engine.Expired:
		return c.JSON(http.StatusGone, body)
	case engine.Terminal:
		return c.JSON(http.StatusConflict, body)
	case engine.NotCancellable:
		return c.JSON(http.StatusConflict, body)
	case engine.Timeout:
		return c.JSON(http.StatusGatewayTimeout, body)
	case engine.Unauthorized:
		return c.JSON(http.StatusForbidden, body)
	case engine.InvariantViolated:
		return c.JSON(http.StatusInternalServerError, body)
	default:
		return c.JSON(http.StatusInternalServerError, body)
	}
}

