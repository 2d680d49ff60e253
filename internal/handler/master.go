package handler

import (
	"context"  // detached context for event publishing
	"errors"   // errors.Is comparisons
	"log"      // background publish failures are logged, not surfaced
	"net/http" // HTTP status codes
	"strings"  // trimming query parameters
	"time"     // event timestamps

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/angelina617/salon/internal/booking"
	"github.com/angelina617/salon/internal/model"
	"github.com/angelina617/salon/internal/queue"
	"github.com/angelina617/salon/internal/repository"
	queuepub "github.com/angelina617/salon/internal/service"
)

// MasterHandler serves the master's workspace: the day view of their
// appointments and the confirm/complete/no-show actions.  The JWT
// subject is a user id; every method first resolves it to the backing
// master profile, which also guarantees the caller actually is a
// master.
type MasterHandler struct {
	Masters      *repository.MasterRepo
	Services     *repository.ServiceRepo
	Users        *repository.UserRepo
	Appointments *repository.AppointmentRepo
	Ledger       *booking.Ledger
}

// NewMasterHandler constructs a MasterHandler.  All dependencies must
// be non-nil.
func NewMasterHandler(masters *repository.MasterRepo, services *repository.ServiceRepo, users *repository.UserRepo, appts *repository.AppointmentRepo, ledger *booking.Ledger) *MasterHandler {
	if masters == nil || services == nil || users == nil || appts == nil || ledger == nil {
		panic("nil dependency passed to NewMasterHandler")
	}
	return &MasterHandler{Masters: masters, Services: services, Users: users, Appointments: appts, Ledger: ledger}
}

// resolveMaster turns the authenticated user into their master profile.
func (h *MasterHandler) resolveMaster(c echo.Context) (model.Master, error) {
	userID, err := getUserID(c)
	if err != nil {
		return model.Master{}, echo.ErrUnauthorized
	}
	m, err := h.Masters.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrMasterNotFound) {
			return model.Master{}, echo.ErrForbidden
		}
		return model.Master{}, err
	}
	return m, nil
}

// ListAppointments handles GET /v1/master/appointments.  Optional
// ?date=YYYY-MM-DD and ?status= filters narrow the list; without a date
// the whole book is returned in chronological order.
func (h *MasterHandler) ListAppointments(c echo.Context) error {
	m, err := h.resolveMaster(c)
	if err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return c.JSON(he.Code, echo.Map{"error": "access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if date != "" {
		if date, err = booking.ParseDate(date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
		}
	}
	var status model.Status
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		s, ok := model.ParseStatus(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		status = s
	}
	items, err := h.Appointments.ListByMaster(c.Request().Context(), m.ID, date, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load appointments"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Confirm handles POST /v1/master/appointments/:id/confirm.  Confirming
// an already-confirmed appointment is a no-op success, so retried
// requests do not error; the confirmation event is only published on
// the pending-to-confirmed edge.
func (h *MasterHandler) Confirm(c echo.Context) error {
	m, err := h.resolveMaster(c)
	if err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return c.JSON(he.Code, echo.Map{"error": "access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	ctx := c.Request().Context()
	before, err := h.Appointments.ByIDForMaster(ctx, id, m.ID)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}
	appt, err := h.Ledger.Confirm(ctx, id, m.ID)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}
	if before.Status == model.StatusPending {
		h.publishConfirmed(m, appt)
	}
	return c.JSON(http.StatusOK, echo.Map{"appointment": appt})
}

// publishConfirmed sends the confirmation event to the broker in the
// background.  Publishing is best effort; a broker outage must not fail
// the confirmation itself.
func (h *MasterHandler) publishConfirmed(m model.Master, appt *model.Appointment) {
	ev := queue.AppointmentConfirmedEvent{
		AppointmentID: appt.ID,
		ClientID:      appt.ClientID,
		MasterID:      m.ID,
		MasterName:    m.FirstName + " " + m.LastName,
		ServiceID:     appt.ServiceID,
		Date:          appt.Date,
		Time:          appt.Time,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if u, err := h.Users.GetByID(ctx, appt.ClientID); err == nil {
			ev.ClientPhone = u.Phone
		}
		if s, err := h.Services.GetByID(ctx, appt.ServiceID); err == nil {
			ev.ServiceName = s.Name
			ev.PriceCents = uint32(s.PriceCents)
		}
		if err := queuepub.PublishAppointmentConfirmed(ctx, ev); err != nil {
			log.Printf("publish appointment.confirmed failed: %v", err)
		}
	}()
}

// Complete handles POST /v1/master/appointments/:id/complete.
func (h *MasterHandler) Complete(c echo.Context) error {
	m, err := h.resolveMaster(c)
	if err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return c.JSON(he.Code, echo.Map{"error": "access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	appt, err := h.Ledger.Complete(c.Request().Context(), id, m.ID)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"appointment": appt})
}

// NoShow handles POST /v1/master/appointments/:id/no-show.
func (h *MasterHandler) NoShow(c echo.Context) error {
	m, err := h.resolveMaster(c)
	if err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return c.JSON(he.Code, echo.Map{"error": "access denied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	appt, err := h.Ledger.MarkNoShow(c.Request().Context(), id, m.ID)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"appointment": appt})
}
