// Package booking implements the slot ledger: the one component of the
// salon backend with a real invariant to protect.  For any
// (master, date, time) tuple at most one appointment may be active
// (pending or confirmed) at any instant, and every status change must
// follow the fixed transition table.  The ledger never reads ambient
// time or session state; acting identity and the current time are
// explicit parameters so that every operation is deterministic.
package booking

import "errors"

// Error kinds returned by ledger operations.  All five are expected,
// recoverable outcomes; handlers translate them into HTTP responses.
// Anything else coming out of the ledger is an opaque store failure and
// maps to a 500.
var (
    // ErrSlotTaken signals that the requested (master, date, time) was
    // no longer available at commit time.
    ErrSlotTaken = errors.New("slot already taken")

    // ErrNotFound signals that a referenced appointment, master or
    // service does not exist or does not belong to the acting identity.
    ErrNotFound = errors.New("not found")

    // ErrPastAppointment signals that a mutation was rejected because
    // the appointment's date and time have already elapsed.
    ErrPastAppointment = errors.New("appointment is in the past")

    // ErrAlreadyFinal signals that a mutation was rejected because the
    // appointment status is terminal.
    ErrAlreadyFinal = errors.New("appointment already has a final status")

    // ErrInvalidInput signals a malformed date or time, or a missing
    // required reference.
    ErrInvalidInput = errors.New("invalid input")
)
