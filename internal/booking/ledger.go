package booking

import (
    "context"
    "strings"
    "time"

    "github.com/angelina617/salon/internal/model"
)

// AppointmentStore is the persistence contract the ledger operates
// over.  The MySQL implementation lives in internal/repository; tests
// substitute an in-memory fake.  Implementations must make Reserve an
// atomic compare-and-insert: when two calls race for the same
// (master, date, time) tuple, exactly one may succeed and the other
// must observe ErrSlotTaken.  The appointments table carries a unique
// index over active slots for exactly this purpose.
type AppointmentStore interface {
    // CountActiveAt returns the number of pending or confirmed
    // appointments occupying the slot.  When excludeID is non-zero,
    // that appointment is ignored (used when re-checking during an
    // update).
    CountActiveAt(ctx context.Context, masterID uint64, date, timeOfDay string, excludeID uint64) (int, error)

    // Reserve inserts the appointment if and only if its slot holds no
    // active appointment, populating ID and timestamps on success.  It
    // returns ErrSlotTaken when the slot is occupied at commit time.
    Reserve(ctx context.Context, appt *model.Appointment) error

    // ByIDForClient loads an appointment owned by the given client,
    // returning ErrNotFound when it does not exist or belongs to
    // someone else.
    ByIDForClient(ctx context.Context, id, clientID uint64) (*model.Appointment, error)

    // ByIDForMaster is the master-side counterpart of ByIDForClient.
    ByIDForMaster(ctx context.Context, id, masterID uint64) (*model.Appointment, error)

    // UpdateStatusFrom atomically moves the appointment to the target
    // status provided its current status is one of the listed source
    // statuses.  It reports whether a row was actually changed, so a
    // lost race against a concurrent transition shows up as false
    // rather than as a silent overwrite.
    UpdateStatusFrom(ctx context.Context, id uint64, to model.Status, from ...model.Status) (bool, error)
}

// Catalog supplies the read-only master and service lookups used to
// validate reserve preconditions.
type Catalog interface {
    MasterExists(ctx context.Context, id uint64) (bool, error)
    ServiceExists(ctx context.Context, id uint64) (bool, error)
}

// Ledger enforces slot exclusivity and the appointment state machine.
// It is a plain in-process component invoked by the HTTP handlers.
type Ledger struct {
    store   AppointmentStore
    catalog Catalog
}

// NewLedger constructs a Ledger.  Both dependencies must be non-nil.
func NewLedger(store AppointmentStore, catalog Catalog) *Ledger {
    if store == nil || catalog == nil {
        panic("nil dependency passed to NewLedger")
    }
    return &Ledger{store: store, catalog: catalog}
}

// ParseDate validates a calendar day in "2006-01-02" form and returns
// it normalized.
func ParseDate(raw string) (string, error) {
    t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
    if err != nil {
        return "", ErrInvalidInput
    }
    return t.Format("2006-01-02"), nil
}

// ParseTimeOfDay validates a wall-clock time and returns it normalized
// to "15:04".  Seconds are accepted on input ("10:00:00") because the
// TIME column format includes them, but the ledger works at minute
// precision.
func ParseTimeOfDay(raw string) (string, error) {
    raw = strings.TrimSpace(raw)
    for _, layout := range []string{"15:04", "15:04:05"} {
        if t, err := time.Parse(layout, raw); err == nil {
            return t.Format("15:04"), nil
        }
    }
    return "", ErrInvalidInput
}

// ReserveParams carries the input of a Reserve call.  ClientID must
// reference an existing account; the implicit account creation of the
// original site is an explicit FindOrCreateClient step performed by the
// caller before reserving, so the ledger's contract stays about slots.
type ReserveParams struct {
    ClientID  uint64
    MasterID  uint64
    ServiceID uint64
    Date      string // "2006-01-02"
    Time      string // "15:04" (seconds tolerated)
    Notes     string
}

// IsAvailable reports whether the slot holds no active appointment.
// excludeID, when non-zero, names an appointment to ignore during the
// check.  This is a pure read; a true result is advisory only and may
// be stale by the time a Reserve commits.
func (l *Ledger) IsAvailable(ctx context.Context, masterID uint64, date, timeOfDay string, excludeID uint64) (bool, error) {
    if masterID == 0 {
        return false, ErrInvalidInput
    }
    d, err := ParseDate(date)
    if err != nil {
        return false, err
    }
    tod, err := ParseTimeOfDay(timeOfDay)
    if err != nil {
        return false, err
    }
    n, err := l.store.CountActiveAt(ctx, masterID, d, tod, excludeID)
    if err != nil {
        return false, err
    }
    return n == 0, nil
}

// Reserve books the slot.  It validates the date and time, verifies
// that the master and service exist, and then performs the
// check-then-insert through the store's atomic Reserve so concurrent
// reservations for the identical tuple serialize: one succeeds, the
// rest get ErrSlotTaken.  The created appointment starts in pending.
func (l *Ledger) Reserve(ctx context.Context, p ReserveParams) (*model.Appointment, error) {
    if p.ClientID == 0 || p.MasterID == 0 || p.ServiceID == 0 {
        return nil, ErrInvalidInput
    }
    date, err := ParseDate(p.Date)
    if err != nil {
        return nil, err
    }
    tod, err := ParseTimeOfDay(p.Time)
    if err != nil {
        return nil, err
    }
    if ok, err := l.catalog.MasterExists(ctx, p.MasterID); err != nil {
        return nil, err
    } else if !ok {
        return nil, ErrNotFound
    }
    if ok, err := l.catalog.ServiceExists(ctx, p.ServiceID); err != nil {
        return nil, err
    } else if !ok {
        return nil, ErrNotFound
    }
    appt := &model.Appointment{
        ClientID:  p.ClientID,
        MasterID:  p.MasterID,
        ServiceID: p.ServiceID,
        Date:      date,
        Time:      tod,
        Status:    model.StatusPending,
        Notes:     p.Notes,
    }
    if err := l.store.Reserve(ctx, appt); err != nil {
        return nil, err
    }
    return appt, nil
}

// Cancel transitions a client's appointment to cancelled.  It fails
// with ErrNotFound when the appointment does not belong to the acting
// client, ErrAlreadyFinal when the status is terminal, and
// ErrPastAppointment when the appointment's date and time are strictly
// before the caller-supplied now.  The past check compares date plus
// time of day, in now's location.
func (l *Ledger) Cancel(ctx context.Context, id, actingClient uint64, now time.Time) (*model.Appointment, error) {
    appt, err := l.store.ByIDForClient(ctx, id, actingClient)
    if err != nil {
        return nil, err
    }
    if appt.Status.IsTerminal() {
        return nil, ErrAlreadyFinal
    }
    startsAt, err := appt.StartsAt(now.Location())
    if err != nil {
        return nil, ErrInvalidInput
    }
    if startsAt.Before(now) {
        return nil, ErrPastAppointment
    }
    return l.transition(ctx, appt, model.StatusCancelled)
}

// Confirm transitions a master's pending appointment to confirmed.
// Confirming an already confirmed appointment is an idempotent no-op
// that returns the appointment unchanged.
func (l *Ledger) Confirm(ctx context.Context, id, actingMaster uint64) (*model.Appointment, error) {
    appt, err := l.store.ByIDForMaster(ctx, id, actingMaster)
    if err != nil {
        return nil, err
    }
    if appt.Status == model.StatusConfirmed {
        return appt, nil
    }
    if appt.Status.IsTerminal() {
        return nil, ErrAlreadyFinal
    }
    return l.transition(ctx, appt, model.StatusConfirmed)
}

// Complete marks a master's appointment as completed.  Unlike Cancel it
// carries no past-date guard: masters close out visits after they have
// happened.
func (l *Ledger) Complete(ctx context.Context, id, actingMaster uint64) (*model.Appointment, error) {
    appt, err := l.store.ByIDForMaster(ctx, id, actingMaster)
    if err != nil {
        return nil, err
    }
    if appt.Status.IsTerminal() {
        return nil, ErrAlreadyFinal
    }
    return l.transition(ctx, appt, model.StatusCompleted)
}

// MarkNoShow records that the client did not arrive.  Same ownership
// and terminality rules as Complete.
func (l *Ledger) MarkNoShow(ctx context.Context, id, actingMaster uint64) (*model.Appointment, error) {
    appt, err := l.store.ByIDForMaster(ctx, id, actingMaster)
    if err != nil {
        return nil, err
    }
    if appt.Status.IsTerminal() {
        return nil, ErrAlreadyFinal
    }
    return l.transition(ctx, appt, model.StatusNoShow)
}

// transition applies a single state-machine edge through the store's
// conditional update.  The update is guarded by the full set of
// permitted source statuses, so a transition that lost a race against a
// concurrent finalizing update changes nothing and surfaces as
// ErrAlreadyFinal.
func (l *Ledger) transition(ctx context.Context, appt *model.Appointment, to model.Status) (*model.Appointment, error) {
    if !CanTransition(appt.Status, to) {
        return nil, ErrAlreadyFinal
    }
    var sources []model.Status
    for from := range transitions {
        if CanTransition(from, to) {
            sources = append(sources, from)
        }
    }
    changed, err := l.store.UpdateStatusFrom(ctx, appt.ID, to, sources...)
    if err != nil {
        return nil, err
    }
    if !changed {
        return nil, ErrAlreadyFinal
    }
    appt.Status = to
    return appt, nil
}
