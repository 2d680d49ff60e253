package booking

import "github.com/angelina617/salon/internal/model"

// transitions is the authoritative table of permitted status changes.
// Terminal statuses have no outgoing edges.  Confirm on an already
// confirmed appointment is handled as an idempotent no-op by the ledger
// and therefore does not appear here.
var transitions = map[model.Status][]model.Status{
    model.StatusPending: {
        model.StatusConfirmed,
        model.StatusCancelled,
        model.StatusCompleted,
        model.StatusNoShow,
    },
    model.StatusConfirmed: {
        model.StatusCancelled,
        model.StatusCompleted,
        model.StatusNoShow,
    },
}

// CanTransition reports whether the state machine permits moving an
// appointment from one status to another.
func CanTransition(from, to model.Status) bool {
    for _, next := range transitions[from] {
        if next == to {
            return true
        }
    }
    return false
}
