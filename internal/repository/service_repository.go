package repository

import (
    "context"
    "database/sql"

    "github.com/angelina617/salon/internal/model"
)

// ServiceRepo provides read access to the services catalog.  Services
// are managed out of band; the API only lists and resolves them.
type ServiceRepo struct {
    db *sql.DB
}

// NewServiceRepo returns a ServiceRepo bound to the given database.
func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

const serviceColumns = `id, name, category, duration_min, price_cents, description, created_at, updated_at`

// GetByID fetches a single service.
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (model.Service, error) {
    var s model.Service
    err := r.db.QueryRowContext(ctx,
        "SELECT "+serviceColumns+" FROM services WHERE id=? LIMIT 1", id).
        Scan(&s.ID, &s.Name, &s.Category, &s.DurationMin, &s.PriceCents,
            &s.Description, &s.CreatedAt, &s.UpdatedAt)
    if err == sql.ErrNoRows {
        return model.Service{}, ErrServiceNotFound
    }
    return s, err
}

// Exists reports whether a service with the given id exists.  Used by
// Catalog to satisfy the ledger's precondition checks.
func (r *ServiceRepo) Exists(ctx context.Context, id uint64) (bool, error) {
    var n int
    err := r.db.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM services WHERE id=?", id).Scan(&n)
    return n > 0, err
}

// List returns a page of services filtered by category and a free-text
// search over name and description, plus the total number of matching
// rows for pagination.  Empty filter arguments are ignored.
func (r *ServiceRepo) List(ctx context.Context, category, search string, limit, offset int) ([]model.Service, int, error) {
    where := " WHERE 1=1"
    args := []interface{}{}
    if category != "" {
        where += " AND category = ?"
        args = append(args, category)
    }
    if search != "" {
        where += " AND (name LIKE ? OR description LIKE ?)"
        pattern := "%" + search + "%"
        args = append(args, pattern, pattern)
    }

    var total int
    if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM services"+where, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    q := "SELECT " + serviceColumns + " FROM services" + where + " ORDER BY name LIMIT ? OFFSET ?"
    args = append(args, limit, offset)
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    out := make([]model.Service, 0)
    for rows.Next() {
        var s model.Service
        if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.DurationMin, &s.PriceCents,
            &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, 0, err
        }
        out = append(out, s)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}

// Categories returns the distinct service categories present in the
// catalog, for the filter dropdown.
func (r *ServiceRepo) Categories(ctx context.Context) ([]string, error) {
    rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT category FROM services ORDER BY category")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]string, 0)
    for rows.Next() {
        var c string
        if err := rows.Scan(&c); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Count returns the total number of services, for the landing-page
// statistics.
func (r *ServiceRepo) Count(ctx context.Context) (int, error) {
    var n int
    err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM services").Scan(&n)
    return n, err
}

// ListByMaster returns the services a master offers, through the
// master_services join table.
func (r *ServiceRepo) ListByMaster(ctx context.Context, masterID uint64) ([]model.Service, error) {
    const q = `SELECT s.id, s.name, s.category, s.duration_min, s.price_cents, s.description, s.created_at, s.updated_at
               FROM services s
               JOIN master_services ms ON ms.service_id = s.id
               WHERE ms.master_id = ?
               ORDER BY s.name`
    rows, err := r.db.QueryContext(ctx, q, masterID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Service, 0)
    for rows.Next() {
        var s model.Service
        if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.DurationMin, &s.PriceCents,
            &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
