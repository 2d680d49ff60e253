package model

import "time"

// Service represents a bookable offering such as a manicure or a
// massage.  Services are immutable from the booking core's point of
// view; they are managed through the admin surface.  This struct
// corresponds to a row in the `services` table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the service.
//  Category    – one of coloring, manicure, massage, cosmetology.
//  DurationMin – duration of the visit in minutes.
//  PriceCents  – price in minor currency units.
//  Description – free-text description shown on the detail page.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Service struct {
    ID          uint64    // services.id
    Name        string    // services.name
    Category    string    // services.category
    DurationMin uint32    // services.duration_min
    PriceCents  uint64    // services.price_cents
    Description string    // services.description
    CreatedAt   time.Time // services.created_at
    UpdatedAt   time.Time // services.updated_at
}
