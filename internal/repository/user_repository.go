package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/angelina617/salon/internal/model"
    "github.com/angelina617/salon/internal/utils"
)

// UserRepo persists accounts in the 'users' table.  Phone is the login
// identity and carries a unique index; duplicate inserts surface as
// MySQL error 1062 and are mapped to ErrPhoneExists.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, first_name, last_name, phone, email, password_hash, role, is_active, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
    var u model.User
    err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Phone, &u.Email,
        &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
    return u, err
}

// Create inserts a user and returns its ID.  The password is hashed
// with bcrypt at the given cost before storage.
func (r *UserRepo) Create(ctx context.Context, firstName, lastName, phone, email, password, role string, cost int) (uint64, error) {
    phone = strings.TrimSpace(phone)
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (first_name, last_name, phone, email, password_hash, role) VALUES (?,?,?,?,?,?)",
        firstName, lastName, phone, strings.TrimSpace(email), hash, role)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrPhoneExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByPhone fetches a user by phone number.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (model.User, error) {
    phone = strings.TrimSpace(phone)
    u, err := scanUser(r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE phone=? LIMIT 1", phone))
    if err == sql.ErrNoRows {
        return model.User{}, ErrUserNotFound
    }
    return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    u, err := scanUser(r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
    if err == sql.ErrNoRows {
        return model.User{}, ErrUserNotFound
    }
    return u, err
}

// FindOrCreateClient returns the client account with the given phone,
// creating one when none exists.  Guest bookings go through this before
// the ledger reserves a slot, keeping account creation out of the
// reserve call itself.  The unique phone index arbitrates concurrent
// creations for the same identity: the loser of the race gets 1062 and
// re-fetches the winner's row, so both callers converge on one account.
// The created flag reports whether a new row was inserted.  New
// accounts receive a random throwaway password; the owner can claim the
// account later through registration support channels.
func (r *UserRepo) FindOrCreateClient(ctx context.Context, firstName, lastName, phone, email string, cost int) (model.User, bool, error) {
    u, err := r.GetByPhone(ctx, phone)
    if err == nil {
        return u, false, nil
    }
    if err != ErrUserNotFound {
        return model.User{}, false, err
    }
    password, err := utils.RandomPassword()
    if err != nil {
        return model.User{}, false, err
    }
    _, err = r.Create(ctx, firstName, lastName, phone, email, password, model.RoleClient, cost)
    if err == ErrPhoneExists {
        u, err = r.GetByPhone(ctx, phone)
        return u, false, err
    }
    if err != nil {
        return model.User{}, false, err
    }
    u, err = r.GetByPhone(ctx, phone)
    return u, true, err
}

// CountByRole returns the number of active users holding a role.  Used
// by the landing-page statistics.
func (r *UserRepo) CountByRole(ctx context.Context, role string) (int, error) {
    var n int
    err := r.DB.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM users WHERE role=? AND is_active=1", role).Scan(&n)
    return n, err
}
