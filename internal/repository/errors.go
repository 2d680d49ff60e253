// Package repository implements MySQL persistence for the salon
// backend.  This file defines sentinel errors shared across the
// repositories.  Handlers compare against these values to pick HTTP
// status codes; the booking core carries its own error taxonomy in
// internal/booking and the appointment repository translates store
// conditions onto it.
package repository

import "errors"

// ErrPhoneExists is returned when registering a user with a phone
// number that is already taken.  Handlers should translate this into an
// HTTP 409 response.
var ErrPhoneExists = errors.New("phone already exists")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrMasterNotFound is returned when a master lookup matches no row.
// Handlers should translate this into an HTTP 404 response.
var ErrMasterNotFound = errors.New("master not found")

// ErrServiceNotFound is returned when a service lookup matches no row.
// Handlers should translate this into an HTTP 404 response.
var ErrServiceNotFound = errors.New("service not found")
