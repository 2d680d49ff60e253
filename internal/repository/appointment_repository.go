package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/angelina617/salon/internal/booking"
    "github.com/angelina617/salon/internal/model"
)

// AppointmentRepo provides persistence for appointments.  It implements
// booking.AppointmentStore, so the slot ledger runs on top of it, and
// additionally exposes the list queries used by the profile and master
// pages.  Date and time columns are read back through DATE_FORMAT and
// TIME_FORMAT so that the Go side always sees the normalized
// "2006-01-02" and "15:04" forms the ledger works with.
type AppointmentRepo struct {
    db *sql.DB
}

// NewAppointmentRepo returns an AppointmentRepo bound to the given database.
func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

// DB exposes the underlying handle for callers that need transactions.
func (r *AppointmentRepo) DB() *sql.DB { return r.db }

const apptColumns = `id, client_id, master_id, service_id,
       DATE_FORMAT(date, '%Y-%m-%d'), TIME_FORMAT(time, '%H:%i'),
       status, notes, created_at, updated_at`

func scanAppointment(row *sql.Row) (*model.Appointment, error) {
    var a model.Appointment
    var status string
    err := row.Scan(&a.ID, &a.ClientID, &a.MasterID, &a.ServiceID,
        &a.Date, &a.Time, &status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
    if err != nil {
        return nil, err
    }
    s, ok := model.ParseStatus(status)
    if !ok {
        // A status outside the closed enumeration can only mean schema
        // drift; surface it rather than guessing.
        return nil, sql.ErrNoRows
    }
    a.Status = s
    return &a, nil
}

// CountActiveAt returns how many pending or confirmed appointments
// occupy the (master, date, time) slot, optionally excluding one
// appointment id.  Part of booking.AppointmentStore.
func (r *AppointmentRepo) CountActiveAt(ctx context.Context, masterID uint64, date, timeOfDay string, excludeID uint64) (int, error) {
    const q = `SELECT COUNT(*) FROM appointments
               WHERE master_id = ? AND date = ? AND time = ?
                 AND status IN ('pending','confirmed') AND id <> ?`
    var n int
    err := r.db.QueryRowContext(ctx, q, masterID, date, timeOfDay, excludeID).Scan(&n)
    return n, err
}

// Reserve inserts a pending appointment if and only if its slot is
// free.  The availability re-check and the insert run inside one
// transaction, and the `uq_active_slot` unique index over
// (master_id, date, time, active) is the arbiter when two transactions
// race past the check: the second insert fails with a duplicate-key
// error (1062) and is reported as booking.ErrSlotTaken.  The generated
// `active` column is NULL for terminal statuses, so cancelled and
// completed appointments do not block the slot.
func (r *AppointmentRepo) Reserve(ctx context.Context, appt *model.Appointment) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const check = `SELECT COUNT(*) FROM appointments
                   WHERE master_id = ? AND date = ? AND time = ?
                     AND status IN ('pending','confirmed')`
    var n int
    if err := tx.QueryRowContext(ctx, check, appt.MasterID, appt.Date, appt.Time).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return booking.ErrSlotTaken
    }

    const ins = `INSERT INTO appointments (client_id, master_id, service_id, date, time, status, notes)
                 VALUES (?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, ins,
        appt.ClientID, appt.MasterID, appt.ServiceID, appt.Date, appt.Time, string(appt.Status), appt.Notes)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return booking.ErrSlotTaken
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    appt.ID = uint64(id)

    // Read the row back to populate timestamps and defaults.
    sel := `SELECT ` + apptColumns + ` FROM appointments WHERE id = ?`
    got, err := scanAppointment(tx.QueryRowContext(ctx, sel, appt.ID))
    if err != nil {
        return err
    }
    *appt = *got

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ByIDForClient loads an appointment belonging to the given client.
// Part of booking.AppointmentStore; returns booking.ErrNotFound when no
// such appointment exists for this client.
func (r *AppointmentRepo) ByIDForClient(ctx context.Context, id, clientID uint64) (*model.Appointment, error) {
    q := `SELECT ` + apptColumns + ` FROM appointments WHERE id = ? AND client_id = ?`
    appt, err := scanAppointment(r.db.QueryRowContext(ctx, q, id, clientID))
    if err == sql.ErrNoRows {
        return nil, booking.ErrNotFound
    }
    return appt, err
}

// ByIDForMaster loads an appointment belonging to the given master.
func (r *AppointmentRepo) ByIDForMaster(ctx context.Context, id, masterID uint64) (*model.Appointment, error) {
    q := `SELECT ` + apptColumns + ` FROM appointments WHERE id = ? AND master_id = ?`
    appt, err := scanAppointment(r.db.QueryRowContext(ctx, q, id, masterID))
    if err == sql.ErrNoRows {
        return nil, booking.ErrNotFound
    }
    return appt, err
}

// UpdateStatusFrom conditionally moves an appointment to the target
// status when its current status is one of the allowed sources.  A
// single guarded UPDATE keeps the transition atomic; zero affected rows
// means the guard failed (the status changed underneath the caller).
func (r *AppointmentRepo) UpdateStatusFrom(ctx context.Context, id uint64, to model.Status, from ...model.Status) (bool, error) {
    if len(from) == 0 {
        return false, nil
    }
    placeholders := strings.Repeat("?,", len(from))
    placeholders = placeholders[:len(placeholders)-1]
    q := `UPDATE appointments SET status = ? WHERE id = ? AND status IN (` + placeholders + `)`
    args := make([]interface{}, 0, len(from)+2)
    args = append(args, string(to), id)
    for _, f := range from {
        args = append(args, string(f))
    }
    res, err := r.db.ExecContext(ctx, q, args...)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// AppointmentDetail is an appointment joined with master and service
// names for display on the client's profile page.
type AppointmentDetail struct {
    ID          uint64       `json:"id"`
    Date        string       `json:"date"`
    Time        string       `json:"time"`
    Status      model.Status `json:"status"`
    Notes       string       `json:"notes,omitempty"`
    MasterID    uint64       `json:"master_id"`
    MasterName  string       `json:"master_name"`
    ServiceID   uint64       `json:"service_id"`
    ServiceName string       `json:"service_name"`
    PriceCents  uint64       `json:"price_cents"`
}

// ListByClient returns all of a client's appointments joined with
// master and service information, newest first.  When the client has no
// appointments an empty slice is returned.
func (r *AppointmentRepo) ListByClient(ctx context.Context, clientID uint64) ([]AppointmentDetail, error) {
    const q = `SELECT a.id, DATE_FORMAT(a.date, '%Y-%m-%d'), TIME_FORMAT(a.time, '%H:%i'),
                      a.status, a.notes,
                      m.id, CONCAT(u.first_name, ' ', u.last_name),
                      s.id, s.name, s.price_cents
               FROM appointments a
               JOIN masters m ON m.id = a.master_id
               JOIN users u ON u.id = m.user_id
               JOIN services s ON s.id = a.service_id
               WHERE a.client_id = ?
               ORDER BY a.date DESC, a.time DESC`
    rows, err := r.db.QueryContext(ctx, q, clientID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]AppointmentDetail, 0)
    for rows.Next() {
        var d AppointmentDetail
        var status string
        if err := rows.Scan(&d.ID, &d.Date, &d.Time, &status, &d.Notes,
            &d.MasterID, &d.MasterName, &d.ServiceID, &d.ServiceName, &d.PriceCents); err != nil {
            return nil, err
        }
        if s, ok := model.ParseStatus(status); ok {
            d.Status = s
        }
        out = append(out, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// MasterAppointment is an appointment joined with client contact
// details for the master's day view.
type MasterAppointment struct {
    ID          uint64       `json:"id"`
    Date        string       `json:"date"`
    Time        string       `json:"time"`
    Status      model.Status `json:"status"`
    Notes       string       `json:"notes,omitempty"`
    ClientID    uint64       `json:"client_id"`
    ClientName  string       `json:"client_name"`
    ClientPhone string       `json:"client_phone"`
    ServiceID   uint64       `json:"service_id"`
    ServiceName string       `json:"service_name"`
    DurationMin uint32       `json:"duration_min"`
}

// ListByMaster returns a master's appointments, optionally restricted
// to a single date and/or status, ordered chronologically.
func (r *AppointmentRepo) ListByMaster(ctx context.Context, masterID uint64, date string, status model.Status) ([]MasterAppointment, error) {
    q := `SELECT a.id, DATE_FORMAT(a.date, '%Y-%m-%d'), TIME_FORMAT(a.time, '%H:%i'),
                 a.status, a.notes,
                 c.id, CONCAT(c.first_name, ' ', c.last_name), c.phone,
                 s.id, s.name, s.duration_min
          FROM appointments a
          JOIN users c ON c.id = a.client_id
          JOIN services s ON s.id = a.service_id
          WHERE a.master_id = ?`
    args := []interface{}{masterID}
    if date != "" {
        q += ` AND a.date = ?`
        args = append(args, date)
    }
    if status != "" {
        q += ` AND a.status = ?`
        args = append(args, string(status))
    }
    q += ` ORDER BY a.date, a.time`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]MasterAppointment, 0)
    for rows.Next() {
        var d MasterAppointment
        var st string
        if err := rows.Scan(&d.ID, &d.Date, &d.Time, &st, &d.Notes,
            &d.ClientID, &d.ClientName, &d.ClientPhone,
            &d.ServiceID, &d.ServiceName, &d.DurationMin); err != nil {
            return nil, err
        }
        if s, ok := model.ParseStatus(st); ok {
            d.Status = s
        }
        out = append(out, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// BusyTimes returns the occupied times of day for a master on a date,
// in ascending order.  Only active appointments block slots, so the
// booking calendar frees times whose appointments were cancelled.
func (r *AppointmentRepo) BusyTimes(ctx context.Context, masterID uint64, date string) ([]string, error) {
    const q = `SELECT TIME_FORMAT(time, '%H:%i') FROM appointments
               WHERE master_id = ? AND date = ? AND status IN ('pending','confirmed')
               ORDER BY time`
    rows, err := r.db.QueryContext(ctx, q, masterID, date)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]string, 0)
    for rows.Next() {
        var t string
        if err := rows.Scan(&t); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// CountByStatus returns the number of appointments in a given status.
// Used by the landing-page statistics.
func (r *AppointmentRepo) CountByStatus(ctx context.Context, status model.Status) (int, error) {
    var n int
    err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM appointments WHERE status = ?", string(status)).Scan(&n)
    return n, err
}

// UpcomingConfirmed returns a master's next confirmed visits starting
// from the given date, limited in number.  Shown on the public master
// detail page.
func (r *AppointmentRepo) UpcomingConfirmed(ctx context.Context, masterID uint64, fromDate string, limit int) ([]AppointmentDetail, error) {
    const q = `SELECT a.id, DATE_FORMAT(a.date, '%Y-%m-%d'), TIME_FORMAT(a.time, '%H:%i'),
                      a.status, a.notes,
                      m.id, CONCAT(u.first_name, ' ', u.last_name),
                      s.id, s.name, s.price_cents
               FROM appointments a
               JOIN masters m ON m.id = a.master_id
               JOIN users u ON u.id = m.user_id
               JOIN services s ON s.id = a.service_id
               WHERE a.master_id = ? AND a.date >= ? AND a.status = 'confirmed'
               ORDER BY a.date, a.time
               LIMIT ?`
    rows, err := r.db.QueryContext(ctx, q, masterID, fromDate, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]AppointmentDetail, 0)
    for rows.Next() {
        var d AppointmentDetail
        var status string
        if err := rows.Scan(&d.ID, &d.Date, &d.Time, &status, &d.Notes,
            &d.MasterID, &d.MasterName, &d.ServiceID, &d.ServiceName, &d.PriceCents); err != nil {
            return nil, err
        }
        if s, ok := model.ParseStatus(status); ok {
            d.Status = s
        }
        out = append(out, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
