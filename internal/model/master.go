package model

import "time"

// Master represents a staff profile: a user who performs services.
// The many-to-many link to the services a master offers lives in the
// `master_services` table.  Masters are read-only lookups for the
// booking core.  This struct corresponds to a row in the `masters`
// table joined with its user.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – account backing this profile.
//  FirstName       – given name, denormalized from users for display.
//  LastName        – family name, denormalized from users for display.
//  Specialization  – what the master specializes in (e.g. "маникюр").
//  ExperienceYears – years of experience.
//  Description     – free-text bio shown on the detail page.
//  PhotoURL        – optional link to the master's photo.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Master struct {
    ID              uint64    // masters.id
    UserID          uint64    // masters.user_id
    FirstName       string    // users.first_name
    LastName        string    // users.last_name
    Specialization  string    // masters.specialization
    ExperienceYears uint32    // masters.experience_years
    Description     string    // masters.description
    PhotoURL        *string   // masters.photo_url (nullable)
    CreatedAt       time.Time // masters.created_at
    UpdatedAt       time.Time // masters.updated_at
}
