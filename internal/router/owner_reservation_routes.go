package router

// This file registers owner-specific routes for inspecting bookings placed
// against the owner's own shows.

import (
	"github.com/labstack/echo/v4"

	"github.com/vinayn0707/showtime-reservations/internal/handler"
	"github.com/vinayn0707/showtime-reservations/internal/middleware"
)

// RegisterOwnerBookings registers routes that let owners inspect bookings
// on their own shows. Mounted under /v1 and requires a JWT plus the OWNER
// role.
func RegisterOwnerBookings(e *echo.Echo, h *handler.OwnerBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)
	g.GET("/shows/:id/bookings", h.ListShowBookings)
	g.GET("/shows/:id/occupancy", h.ShowOccupancy)
	g.GET("/shows/:id/revenue", h.ShowRevenue)
}
