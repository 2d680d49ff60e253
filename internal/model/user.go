package model

import "time"

// Role names for the users table.  The original site distinguishes
// clients, masters and administrators; the JWT "role" claim carries the
// same values.
const (
    RoleClient = "client"
    RoleMaster = "master"
    RoleAdmin  = "admin"
)

// User represents an account record as stored in the `users` table.
// Phone is the login identity and is unique; the uniqueness constraint
// also keeps concurrent implicit registrations during guest booking from
// producing duplicate accounts.
//
// Fields:
//  ID           – primary key identifier.
//  FirstName    – given name.
//  LastName     – family name.
//  Phone        – unique phone number in 7XXXXXXXXXX form.
//  Email        – contact email, may be empty.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of client, master, admin.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    Phone        string    // users.phone
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp.
//  RevokedAt – when the token was revoked (null while active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
