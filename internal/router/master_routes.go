package router

import (
	"github.com/labstack/echo/v4"

	"github.com/angelina617/salon/internal/handler"
	"github.com/angelina617/salon/internal/middleware"
)

// RegisterMaster registers master-scoped endpoints under /v1/master.
// All routes require a valid JWT and the master role; each handler
// additionally resolves the token subject to a master profile, so an
// account with the role but no profile is rejected.
func RegisterMaster(e *echo.Echo, h *handler.MasterHandler, jwtSecret string) {
	g := e.Group(
		"/v1/master",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("master"),
	)
	g.GET("/appointments", h.ListAppointments)
	g.POST("/appointments/:id/confirm", h.Confirm)
	g.POST("/appointments/:id/complete", h.Complete)
	g.POST("/appointments/:id/no-show", h.NoShow)
}
