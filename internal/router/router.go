package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/angelina617/salon/internal/handler"    // import the handlers that implement business logic
	"github.com/angelina617/salon/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this endpoint to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Session-less operations: register, login, token exchange.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication: the handler accepts a
	// refresh_token in the body, or a Bearer token to end all sessions.
	g.POST("/logout", a.Logout)

	// Protected endpoints.  JWTAuth validates the access token and
	// RequireRole rejects requests with missing or unknown roles; every
	// known role may read its own profile.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("client", "master", "admin"))
	auth.GET("/me", a.Me)

	// Alias so clients can call either /v1/auth/logout or /v1/logout
	// with a valid refresh token in the body to terminate a session.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated catalog and booking
// endpoints on the provided Echo instance.  The PublicHandler returns
// sanitized data for services and masters; the BookingHandler's guest
// endpoint lets visitors book by phone without an account.  These
// routes apply no JWT or role middleware.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, b *handler.BookingHandler) {
	// Service catalog with category/search filters and pagination.
	e.GET("/v1/services", p.ListServices)
	// Service details plus the masters offering it.
	e.GET("/v1/services/:id", p.GetService)
	// Master profiles with specialization/search filters and pagination.
	e.GET("/v1/masters", p.ListMasters)
	// Master details plus their services and next confirmed visits.
	e.GET("/v1/masters/:id", p.GetMaster)
	// Busy and free times of a master on a date, so guests can pick a
	// slot before filling the booking form.
	e.GET("/v1/masters/:id/schedule", p.GetMasterSchedule)
	// Point check of one (master, date, time) slot.  The answer is
	// advisory; booking itself re-checks atomically.
	e.GET("/v1/availability", p.CheckAvailability)
	// Landing-page content.
	e.GET("/v1/promotions", p.ListPromotions)
	e.GET("/v1/stats", p.GetStats)
	// Guest booking by phone.
	e.POST("/v1/bookings", b.CreateGuestBooking)
}
