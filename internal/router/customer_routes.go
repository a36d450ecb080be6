package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/vinayn0707/showtime-reservations/internal/config"
	"github.com/vinayn0707/showtime-reservations/internal/handler"
	"github.com/vinayn0707/showtime-reservations/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1. All routes
// require a valid JWT and the CUSTOMER role. Customers can initiate a
// booking, confirm or cancel it through payment, and view their own
// booking history. rlCfg/rdb rate-limit the seat-hold endpoint so a single
// customer script can't hammer InitiateBooking across every show; rdb nil
// or rlCfg.Enabled false makes NewTokenBucket a no-op passthrough.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	// Note: GET /v1/shows/:id/seats, GET /v1/halls/:id/seats/layout and
	// GET /v1/halls/:id/seats are registered on the public router so that
	// guests can view seat availability and hall seat lists.
	g.POST("/shows/:id/bookings", h.InitiateBooking, middleware.NewTokenBucket(rlCfg, rdb))
	g.POST("/bookings/:id/confirm", h.ConfirmBooking)
	g.POST("/bookings/:id/cancel", h.CancelBooking)
	g.GET("/my-bookings", h.UserBookings)
	g.GET("/bookings/:id", h.GetBooking)
}
