package model

import "time"

// Status enumerates the lifecycle states of an appointment.  The set is
// closed: values coming from the outside world must pass through
// ParseStatus so that unknown strings are rejected at the boundary
// instead of leaking into the database.
type Status string

const (
    StatusPending   Status = "pending"   // created, waiting for the master to confirm
    StatusConfirmed Status = "confirmed" // confirmed by the master
    StatusCompleted Status = "completed" // visit took place (terminal)
    StatusCancelled Status = "cancelled" // cancelled before the visit (terminal)
    StatusNoShow    Status = "no_show"   // client did not arrive (terminal)
)

// ParseStatus validates a raw status string.  It returns the typed
// Status and true when the value is one of the known states.
func ParseStatus(raw string) (Status, bool) {
    switch Status(raw) {
    case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
        return Status(raw), true
    }
    return "", false
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
    return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// IsActive reports whether the status occupies a slot.  Only pending and
// confirmed appointments block a (master, date, time) tuple; terminal
// statuses release it.
func (s Status) IsActive() bool {
    return s == StatusPending || s == StatusConfirmed
}

// Appointment represents one booking of a service with a master at a
// calendar date and wall-clock time.  It corresponds to a row in the
// `appointments` table.
//
// Fields:
//  ID        – primary key identifier.
//  ClientID  – user who booked the visit.
//  MasterID  – master performing the service.
//  ServiceID – service being performed.
//  Date      – calendar day in "2006-01-02" form.
//  Time      – time of day in "15:04" form, minute precision, local wall clock.
//  Status    – lifecycle state, see Status.
//  Notes     – free-text notes supplied by the client.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last modification timestamp.
type Appointment struct {
    ID        uint64    `json:"id"`         // appointments.id
    ClientID  uint64    `json:"client_id"`  // appointments.client_id
    MasterID  uint64    `json:"master_id"`  // appointments.master_id
    ServiceID uint64    `json:"service_id"` // appointments.service_id
    Date      string    `json:"date"`       // appointments.date (DATE)
    Time      string    `json:"time"`       // appointments.time (TIME)
    Status    Status    `json:"status"`     // appointments.status
    Notes     string    `json:"notes"`      // appointments.notes
    CreatedAt time.Time `json:"created_at"` // appointments.created_at
    UpdatedAt time.Time `json:"updated_at"` // appointments.updated_at
}

// StartsAt combines Date and Time into a single time.Time in the given
// location.  Appointments carry no timezone of their own; the salon
// operates on local wall-clock time, so the caller chooses the location.
func (a Appointment) StartsAt(loc *time.Location) (time.Time, error) {
    return time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, loc)
}
