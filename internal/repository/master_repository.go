package repository

import (
    "context"
    "database/sql"

    "github.com/angelina617/salon/internal/model"
)

// MasterRepo provides read access to master profiles.  Masters are
// users with a staff profile row; list queries join the two tables so
// responses carry display names without extra lookups.
type MasterRepo struct {
    db *sql.DB
}

// NewMasterRepo returns a MasterRepo bound to the given database.
func NewMasterRepo(db *sql.DB) *MasterRepo { return &MasterRepo{db: db} }

const masterSelect = `SELECT m.id, m.user_id, u.first_name, u.last_name,
       m.specialization, m.experience_years, m.description, m.photo_url,
       m.created_at, m.updated_at
  FROM masters m
  JOIN users u ON u.id = m.user_id`

func scanMaster(scan func(dest ...interface{}) error) (model.Master, error) {
    var m model.Master
    var photo sql.NullString
    err := scan(&m.ID, &m.UserID, &m.FirstName, &m.LastName,
        &m.Specialization, &m.ExperienceYears, &m.Description, &photo,
        &m.CreatedAt, &m.UpdatedAt)
    if err != nil {
        return model.Master{}, err
    }
    if photo.Valid {
        p := photo.String
        m.PhotoURL = &p
    }
    return m, nil
}

// GetByID fetches a single master profile.
func (r *MasterRepo) GetByID(ctx context.Context, id uint64) (model.Master, error) {
    m, err := scanMaster(r.db.QueryRowContext(ctx, masterSelect+" WHERE m.id = ? LIMIT 1", id).Scan)
    if err == sql.ErrNoRows {
        return model.Master{}, ErrMasterNotFound
    }
    return m, err
}

// GetByUserID resolves the master profile backing a user account.  The
// master-facing handlers use this to turn the JWT subject into a master
// id before calling the ledger.
func (r *MasterRepo) GetByUserID(ctx context.Context, userID uint64) (model.Master, error) {
    m, err := scanMaster(r.db.QueryRowContext(ctx, masterSelect+" WHERE m.user_id = ? LIMIT 1", userID).Scan)
    if err == sql.ErrNoRows {
        return model.Master{}, ErrMasterNotFound
    }
    return m, err
}

// Exists reports whether a master with the given id exists.  Used by
// Catalog to satisfy the ledger's precondition checks.
func (r *MasterRepo) Exists(ctx context.Context, id uint64) (bool, error) {
    var n int
    err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM masters WHERE id=?", id).Scan(&n)
    return n > 0, err
}

// List returns a page of masters filtered by specialization and a
// free-text search over names and description, plus the total count of
// matching rows.  Empty filter arguments are ignored.
func (r *MasterRepo) List(ctx context.Context, specialization, search string, limit, offset int) ([]model.Master, int, error) {
    where := " WHERE 1=1"
    args := []interface{}{}
    if specialization != "" {
        where += " AND m.specialization LIKE ?"
        args = append(args, "%"+specialization+"%")
    }
    if search != "" {
        where += " AND (u.first_name LIKE ? OR u.last_name LIKE ? OR m.description LIKE ?)"
        pattern := "%" + search + "%"
        args = append(args, pattern, pattern, pattern)
    }

    var total int
    countQ := "SELECT COUNT(*) FROM masters m JOIN users u ON u.id = m.user_id" + where
    if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    q := masterSelect + where + " ORDER BY u.last_name, u.first_name LIMIT ? OFFSET ?"
    args = append(args, limit, offset)
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    out := make([]model.Master, 0)
    for rows.Next() {
        m, err := scanMaster(rows.Scan)
        if err != nil {
            return nil, 0, err
        }
        out = append(out, m)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}

// Specializations returns the distinct specializations present among
// masters, for the filter dropdown.
func (r *MasterRepo) Specializations(ctx context.Context) ([]string, error) {
    rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT specialization FROM masters ORDER BY specialization")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]string, 0)
    for rows.Next() {
        var s string
        if err := rows.Scan(&s); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// ListByService returns the masters offering a particular service.
func (r *MasterRepo) ListByService(ctx context.Context, serviceID uint64) ([]model.Master, error) {
    q := masterSelect + ` JOIN master_services ms ON ms.master_id = m.id
        WHERE ms.service_id = ? ORDER BY u.last_name, u.first_name`
    rows, err := r.db.QueryContext(ctx, q, serviceID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Master, 0)
    for rows.Next() {
        m, err := scanMaster(rows.Scan)
        if err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Count returns the total number of masters, for the landing-page
// statistics.
func (r *MasterRepo) Count(ctx context.Context) (int, error) {
    var n int
    err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM masters").Scan(&n)
    return n, err
}
