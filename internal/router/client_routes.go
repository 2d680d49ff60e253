package router

import (
	"github.com/labstack/echo/v4"

	"github.com/angelina617/salon/internal/handler"
	"github.com/angelina617/salon/internal/middleware"
)

// RegisterClient registers client-scoped endpoints under /v1.  All
// routes require a valid JWT and the client role.  Clients can book
// appointments, list their own visits split into upcoming and past,
// view a single appointment and cancel it before it starts.
func RegisterClient(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("client"),
	)
	g.POST("/appointments", h.CreateAppointment)
	g.GET("/my-appointments", h.ListMyAppointments)
	g.GET("/appointments/:id", h.GetAppointment)
	// Cancellation is a status transition, not a delete: the row stays
	// for history while the slot frees up for rebooking.
	g.POST("/appointments/:id/cancel", h.CancelAppointment)
}
