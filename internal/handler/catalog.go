// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public catalog API. These routes allow
// unauthenticated users to browse services and masters, inspect a master's
// schedule and check slot availability before booking. Sensitive fields
// (password hashes, account flags, timestamps) are filtered from responses.

package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/angelina617/salon/internal/booking"
	"github.com/angelina617/salon/internal/repository"
)

// workingSlots is the salon's bookable time grid: hourly visits from
// opening to the last slot of the day.
var workingSlots = []string{
	"10:00", "11:00", "12:00", "13:00", "14:00",
	"15:00", "16:00", "17:00", "18:00", "19:00",
}

// PublicHandler aggregates repositories needed for unauthenticated browsing.
// It produces sanitized responses suitable for public consumption.
type PublicHandler struct {
	Services     *repository.ServiceRepo
	Masters      *repository.MasterRepo
	Appointments *repository.AppointmentRepo
	Users        *repository.UserRepo
	Ledger       *booking.Ledger
}

// publicService represents a service exposed via the public API.
type publicService struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	DurationMin uint32 `json:"duration_min"`
	PriceCents  uint64 `json:"price_cents"`
	Description string `json:"description,omitempty"`
}

// publicMaster represents a master profile exposed via the public API.
type publicMaster struct {
	ID              uint64  `json:"id"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Specialization  string  `json:"specialization"`
	ExperienceYears uint32  `json:"experience_years"`
	Description     string  `json:"description,omitempty"`
	PhotoURL        *string `json:"photo_url,omitempty"`
}

// promotion is a current offer shown on the landing page. The list is
// static content managed in code; promotions carry no booking logic.
type promotion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DiscountPct int    `json:"discount_pct"`
}

var promotions = []promotion{
	{Title: "Happy hours", Description: "20% off all services on weekdays before noon", DiscountPct: 20},
	{Title: "First visit", Description: "15% off your first appointment", DiscountPct: 15},
	{Title: "Bring a friend", Description: "10% off for both of you when booking together", DiscountPct: 10},
}

// ListServices returns a page of the service catalog with optional
// category and free-text filters, plus the distinct categories for the
// filter dropdown.
func (h *PublicHandler) ListServices(c echo.Context) error {
	ctx := c.Request().Context()
	category := strings.TrimSpace(c.QueryParam("category"))
	search := strings.TrimSpace(c.QueryParam("search"))
	page, ps := pageParams(c)

	items, total, err := h.Services.List(ctx, category, search, ps, (page-1)*ps)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	categories, err := h.Services.Categories(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicService, 0, len(items))
	for _, s := range items {
		out = append(out, publicService{
			ID: s.ID, Name: s.Name, Category: s.Category,
			DurationMin: s.DurationMin, PriceCents: s.PriceCents, Description: s.Description,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":      out,
		"categories": categories,
		"total":      total,
		"page":       page,
		"page_size":  ps,
	})
}

// GetService returns a single service along with the masters who offer it.
func (h *PublicHandler) GetService(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	s, err := h.Services.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrServiceNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	masters, err := h.Masters.ListByService(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	pm := make([]publicMaster, 0, len(masters))
	for _, m := range masters {
		pm = append(pm, publicMaster{
			ID: m.ID, FirstName: m.FirstName, LastName: m.LastName,
			Specialization: m.Specialization, ExperienceYears: m.ExperienceYears,
			Description: m.Description, PhotoURL: m.PhotoURL,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"item": publicService{
			ID: s.ID, Name: s.Name, Category: s.Category,
			DurationMin: s.DurationMin, PriceCents: s.PriceCents, Description: s.Description,
		},
		"masters": pm,
	})
}

// ListMasters returns a page of master profiles with optional
// specialization and free-text filters.
func (h *PublicHandler) ListMasters(c echo.Context) error {
	ctx := c.Request().Context()
	specialization := strings.TrimSpace(c.QueryParam("specialization"))
	search := strings.TrimSpace(c.QueryParam("search"))
	page, ps := pageParams(c)

	items, total, err := h.Masters.List(ctx, specialization, search, ps, (page-1)*ps)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	specializations, err := h.Masters.Specializations(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]publicMaster, 0, len(items))
	for _, m := range items {
		out = append(out, publicMaster{
			ID: m.ID, FirstName: m.FirstName, LastName: m.LastName,
			Specialization: m.Specialization, ExperienceYears: m.ExperienceYears,
			Description: m.Description, PhotoURL: m.PhotoURL,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":           out,
		"specializations": specializations,
		"total":           total,
		"page":            page,
		"page_size":       ps,
	})
}

// GetMaster returns a master profile, the services they offer and their
// next confirmed visits.
func (h *PublicHandler) GetMaster(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Masters.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMasterNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "master not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	services, err := h.Services.ListByMaster(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	today := time.Now().Format("2006-01-02")
	upcoming, err := h.Appointments.UpcomingConfirmed(ctx, id, today, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	ps := make([]publicService, 0, len(services))
	for _, s := range services {
		ps = append(ps, publicService{
			ID: s.ID, Name: s.Name, Category: s.Category,
			DurationMin: s.DurationMin, PriceCents: s.PriceCents, Description: s.Description,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"item": publicMaster{
			ID: m.ID, FirstName: m.FirstName, LastName: m.LastName,
			Specialization: m.Specialization, ExperienceYears: m.ExperienceYears,
			Description: m.Description, PhotoURL: m.PhotoURL,
		},
		"services": ps,
		"upcoming": upcoming,
	})
}

// GetMasterSchedule returns the busy and free times of a master on a
// date. Only active appointments block slots, so a cancelled visit
// frees its time immediately.
func (h *PublicHandler) GetMasterSchedule(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	date, err := booking.ParseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}
	if ok, err := h.Masters.Exists(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	} else if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "master not found"})
	}
	busy, err := h.Appointments.BusyTimes(ctx, id, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	taken := make(map[string]struct{}, len(busy))
	for _, t := range busy {
		taken[t] = struct{}{}
	}
	free := make([]string, 0, len(workingSlots))
	for _, t := range workingSlots {
		if _, ok := taken[t]; !ok {
			free = append(free, t)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date": date,
		"busy": busy,
		"free": free,
	})
}

// CheckAvailability reports whether a single (master, date, time) slot
// is open. The answer is advisory: a concurrent booking may take the
// slot before the caller reserves it, in which case the reserve call
// itself reports the conflict.
func (h *PublicHandler) CheckAvailability(c echo.Context) error {
	masterID, err := parseQueryID(c, "master_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid master_id"})
	}
	available, err := h.Ledger.IsAvailable(c.Request().Context(), masterID,
		c.QueryParam("date"), c.QueryParam("time"), 0)
	if err != nil {
		switch err {
		case booking.ErrInvalidInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date or time"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"available": available})
}

// ListPromotions returns the current offers.
func (h *PublicHandler) ListPromotions(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": promotions})
}

// GetStats returns the landing-page counters.
func (h *PublicHandler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	masters, err := h.Masters.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	services, err := h.Services.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	clients, err := h.Users.CountByRole(ctx, "client")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	completed, err := h.Appointments.CountByStatus(ctx, "completed")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"masters":          masters,
		"services":         services,
		"clients":          clients,
		"visits_completed": completed,
	})
}
