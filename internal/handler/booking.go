package handler

import (
	"context"  // bounded contexts for DB calls
	"errors"   // errors.Is comparisons against ledger sentinels
	"net/http" // HTTP status codes
	"strings"  // trimming request fields
	"time"     // past/upcoming split and DB timeouts

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/angelina617/salon/internal/booking"
	"github.com/angelina617/salon/internal/config"
	"github.com/angelina617/salon/internal/repository"
)

// BookingHandler serves the booking flow for guests and clients.  The
// slot invariant lives in the ledger; this layer only translates HTTP
// requests into ledger calls and ledger errors into status codes.
type BookingHandler struct {
	Cfg          config.Config
	Users        *repository.UserRepo
	Appointments *repository.AppointmentRepo
	Ledger       *booking.Ledger
}

// NewBookingHandler constructs a BookingHandler.  All dependencies must
// be non-nil.
func NewBookingHandler(cfg config.Config, users *repository.UserRepo, appts *repository.AppointmentRepo, ledger *booking.Ledger) *BookingHandler {
	if users == nil || appts == nil || ledger == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Cfg: cfg, Users: users, Appointments: appts, Ledger: ledger}
}

type guestBookingReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	MasterID  uint64 `json:"master_id"`
	ServiceID uint64 `json:"service_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Notes     string `json:"notes"`
}

type clientBookingReq struct {
	MasterID  uint64 `json:"master_id"`
	ServiceID uint64 `json:"service_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Notes     string `json:"notes"`
}

// ledgerErrorResponse maps ledger sentinels onto HTTP responses.  nil
// means the error was not a known ledger outcome.
func ledgerErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrSlotTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot already taken"})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, booking.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid input"})
	case errors.Is(err, booking.ErrPastAppointment):
		return c.JSON(http.StatusConflict, echo.Map{"error": "appointment already started"})
	case errors.Is(err, booking.ErrAlreadyFinal):
		return c.JSON(http.StatusConflict, echo.Map{"error": "appointment already finalized"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// CreateGuestBooking handles POST /v1/bookings.  This is the public
// booking form: the caller identifies themselves by phone, an account is
// found or created for that phone, and the slot is reserved for it.
// Account resolution and slot reservation are separate steps; if two
// guests race for the same slot, the unique index behind the ledger
// lets exactly one booking through and the other gets 409.
func (h *BookingHandler) CreateGuestBooking(c echo.Context) error {
	var req guestBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	phone, ok := normalizePhone(req.Phone)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phone"})
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	if req.FirstName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, created, err := h.Users.FindOrCreateClient(ctx, req.FirstName, strings.TrimSpace(req.LastName), phone, strings.TrimSpace(req.Email), h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve account failed"})
	}

	appt, err := h.Ledger.Reserve(ctx, booking.ReserveParams{
		ClientID:  u.ID,
		MasterID:  req.MasterID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     strings.TrimSpace(req.Notes),
	})
	if err != nil {
		return ledgerErrorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"appointment":     appt,
		"account_created": created,
	})
}

// CreateAppointment handles POST /v1/appointments for authenticated
// clients.  Identical to the guest flow except the acting client comes
// from the access token.
func (h *BookingHandler) CreateAppointment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req clientBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	appt, err := h.Ledger.Reserve(ctx, booking.ReserveParams{
		ClientID:  userID,
		MasterID:  req.MasterID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     strings.TrimSpace(req.Notes),
	})
	if err != nil {
		return ledgerErrorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"appointment": appt})
}

// ListMyAppointments handles GET /v1/my-appointments.  Appointments are
// split into upcoming and past relative to the current wall-clock time,
// matching the two sections of the profile page.
func (h *BookingHandler) ListMyAppointments(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Appointments.ListByClient(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load appointments"})
	}
	now := time.Now()
	cutoff := now.Format("2006-01-02 15:04")
	upcoming := make([]repository.AppointmentDetail, 0)
	past := make([]repository.AppointmentDetail, 0)
	for _, d := range details {
		if d.Date+" "+d.Time >= cutoff {
			upcoming = append(upcoming, d)
		} else {
			past = append(past, d)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"upcoming": upcoming,
		"past":     past,
	})
}

// GetAppointment handles GET /v1/appointments/:id.  Ownership is part
// of the lookup, so an appointment of another client reads as 404
// rather than 403 and ids cannot be probed.
func (h *BookingHandler) GetAppointment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	appt, err := h.Appointments.ByIDForClient(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "appointment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch appointment"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": appt})
}

// CancelAppointment handles POST /v1/appointments/:id/cancel.  Clients
// may cancel their own pending or confirmed appointments up until the
// visit starts; the ledger enforces ownership, the past-time rule and
// the transition table.
func (h *BookingHandler) CancelAppointment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	appt, err := h.Ledger.Cancel(c.Request().Context(), id, userID, time.Now())
	if err != nil {
		return ledgerErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"appointment": appt})
}
