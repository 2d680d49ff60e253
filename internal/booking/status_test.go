package booking_test

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/angelina617/salon/internal/booking"
    "github.com/angelina617/salon/internal/model"
)

func TestParseStatus(t *testing.T) {
    for _, raw := range []string{"pending", "confirmed", "completed", "cancelled", "no_show"} {
        s, ok := model.ParseStatus(raw)
        assert.True(t, ok, raw)
        assert.Equal(t, model.Status(raw), s)
    }
    for _, raw := range []string{"", "PENDING", "done", "complated", "noshow"} {
        _, ok := model.ParseStatus(raw)
        assert.False(t, ok, raw)
    }
}

func TestTransitionTable(t *testing.T) {
    type edge struct {
        from, to model.Status
        ok       bool
    }
    cases := []edge{
        {model.StatusPending, model.StatusConfirmed, true},
        {model.StatusPending, model.StatusCancelled, true},
        {model.StatusPending, model.StatusCompleted, true},
        {model.StatusPending, model.StatusNoShow, true},
        {model.StatusConfirmed, model.StatusCancelled, true},
        {model.StatusConfirmed, model.StatusCompleted, true},
        {model.StatusConfirmed, model.StatusNoShow, true},
        {model.StatusConfirmed, model.StatusPending, false},
        {model.StatusCompleted, model.StatusCancelled, false},
        {model.StatusCancelled, model.StatusConfirmed, false},
        {model.StatusNoShow, model.StatusCompleted, false},
        {model.StatusCancelled, model.StatusPending, false},
    }
    for _, c := range cases {
        assert.Equal(t, c.ok, booking.CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
    }
}

func TestStatusPredicates(t *testing.T) {
    assert.True(t, model.StatusPending.IsActive())
    assert.True(t, model.StatusConfirmed.IsActive())
    assert.False(t, model.StatusCompleted.IsActive())

    assert.True(t, model.StatusCompleted.IsTerminal())
    assert.True(t, model.StatusCancelled.IsTerminal())
    assert.True(t, model.StatusNoShow.IsTerminal())
    assert.False(t, model.StatusPending.IsTerminal())
    assert.False(t, model.StatusConfirmed.IsTerminal())
}

func TestParseDateAndTime(t *testing.T) {
    d, err := booking.ParseDate(" 2025-06-01 ")
    assert.NoError(t, err)
    assert.Equal(t, "2025-06-01", d)

    _, err = booking.ParseDate("2025-13-01")
    assert.ErrorIs(t, err, booking.ErrInvalidInput)

    tod, err := booking.ParseTimeOfDay("09:30")
    assert.NoError(t, err)
    assert.Equal(t, "09:30", tod)

    tod, err = booking.ParseTimeOfDay("09:30:00")
    assert.NoError(t, err)
    assert.Equal(t, "09:30", tod)

    _, err = booking.ParseTimeOfDay("24:00")
    assert.ErrorIs(t, err, booking.ErrInvalidInput)
}
