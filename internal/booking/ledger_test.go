package booking_test

import (
    "context"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/angelina617/salon/internal/booking"
    "github.com/angelina617/salon/internal/model"
)

// memStore is an in-memory AppointmentStore.  Reserve holds the mutex
// across the availability check and the insert, giving it the same
// serializability guarantee the MySQL implementation gets from the
// unique active-slot index.
type memStore struct {
    mu     sync.Mutex
    nextID uint64
    appts  map[uint64]*model.Appointment
}

func newMemStore() *memStore {
    return &memStore{appts: map[uint64]*model.Appointment{}}
}

var _ booking.AppointmentStore = (*memStore)(nil)

func (s *memStore) CountActiveAt(_ context.Context, masterID uint64, date, tod string, excludeID uint64) (int, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.countActiveLocked(masterID, date, tod, excludeID), nil
}

func (s *memStore) countActiveLocked(masterID uint64, date, tod string, excludeID uint64) int {
    n := 0
    for _, a := range s.appts {
        if a.MasterID == masterID && a.Date == date && a.Time == tod && a.Status.IsActive() && a.ID != excludeID {
            n++
        }
    }
    return n
}

func (s *memStore) Reserve(_ context.Context, appt *model.Appointment) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.countActiveLocked(appt.MasterID, appt.Date, appt.Time, 0) > 0 {
        return booking.ErrSlotTaken
    }
    s.nextID++
    appt.ID = s.nextID
    appt.CreatedAt = time.Now().UTC()
    appt.UpdatedAt = appt.CreatedAt
    cp := *appt
    s.appts[appt.ID] = &cp
    return nil
}

func (s *memStore) ByIDForClient(_ context.Context, id, clientID uint64) (*model.Appointment, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    a, ok := s.appts[id]
    if !ok || a.ClientID != clientID {
        return nil, booking.ErrNotFound
    }
    cp := *a
    return &cp, nil
}

func (s *memStore) ByIDForMaster(_ context.Context, id, masterID uint64) (*model.Appointment, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    a, ok := s.appts[id]
    if !ok || a.MasterID != masterID {
        return nil, booking.ErrNotFound
    }
    cp := *a
    return &cp, nil
}

func (s *memStore) UpdateStatusFrom(_ context.Context, id uint64, to model.Status, from ...model.Status) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    a, ok := s.appts[id]
    if !ok {
        return false, nil
    }
    for _, f := range from {
        if a.Status == f {
            a.Status = to
            a.UpdatedAt = time.Now().UTC()
            return true, nil
        }
    }
    return false, nil
}

// status reads the stored status directly, bypassing the ledger.
func (s *memStore) status(t *testing.T, id uint64) model.Status {
    t.Helper()
    s.mu.Lock()
    defer s.mu.Unlock()
    a, ok := s.appts[id]
    require.True(t, ok, "appointment %d not in store", id)
    return a.Status
}

func (s *memStore) activeCount(masterID uint64, date, tod string) int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.countActiveLocked(masterID, date, tod, 0)
}

func (s *memStore) total() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return len(s.appts)
}

// memCatalog reports fixed sets of known master and service IDs.
type memCatalog struct {
    masters  map[uint64]bool
    services map[uint64]bool
}

var _ booking.Catalog = (*memCatalog)(nil)

func (c *memCatalog) MasterExists(_ context.Context, id uint64) (bool, error) {
    return c.masters[id], nil
}

func (c *memCatalog) ServiceExists(_ context.Context, id uint64) (bool, error) {
    return c.services[id], nil
}

// ---- helpers ---------------------------------------------------------------

const (
    clientID  = uint64(10)
    client2ID = uint64(11)
    masterID  = uint64(1)
    master2ID = uint64(2)
    serviceID = uint64(100)
)

func newLedger() (*booking.Ledger, *memStore) {
    store := newMemStore()
    cat := &memCatalog{
        masters:  map[uint64]bool{masterID: true, master2ID: true},
        services: map[uint64]bool{serviceID: true},
    }
    return booking.NewLedger(store, cat), store
}

func params(client uint64, date, tod string) booking.ReserveParams {
    return booking.ReserveParams{
        ClientID:  client,
        MasterID:  masterID,
        ServiceID: serviceID,
        Date:      date,
        Time:      tod,
    }
}

// ---- tests -----------------------------------------------------------------

func TestReserveHappyPath(t *testing.T) {
    ledger, _ := newLedger()
    ctx := context.Background()

    appt, err := ledger.Reserve(ctx, params(clientID, "2025-06-01", "10:00"))
    require.NoError(t, err)
    assert.Equal(t, model.StatusPending, appt.Status)
    assert.NotZero(t, appt.ID)
    assert.Equal(t, "2025-06-01", appt.Date)
    assert.Equal(t, "10:00", appt.Time)

    free, err := ledger.IsAvailable(ctx, masterID, "2025-06-01", "10:00", 0)
    require.NoError(t, err)
    assert.False(t, free, "slot must be occupied after reserve")
}

func TestReserveDoubleBooking(t *testing.T) {
    ledger, store := newLedger()
    ctx := context.Background()

    _, err := ledger.Reserve(ctx, params(clientID, "2025-06-01", "10:00"))
    require.NoError(t, err)

    _, err = ledger.Reserve(ctx, params(client2ID, "2025-06-01", "10:00"))
    assert.ErrorIs(t, err, booking.ErrSlotTaken)
    assert.Equal(t, 1, store.total(), "failed reserve must not insert")
}

func TestReserveDistinctSlots(t *testing.T) {
    ledger, _ := newLedger()
    ctx := context.Background()

    _, err := ledger.Reserve(ctx, params(clientID, "2025-06-01", "10:00"))
    require.NoError(t, err)

    // Same master, different time; same time, different master.
    _, err = ledger.Reserve(ctx, params(client2ID, "2025-06-01", "11:00"))
    assert.NoError(t, err)

    p := params(client2ID, "2025-06-01", "10:00")
    p.MasterID = master2ID
    _, err = ledger.Reserve(ctx, p)
    assert.NoError(t, err)
}

func TestReserveValidation(t *testing.T) {
    ledger, _ := newLedger()
    ctx := context.Background()

    cases := []struct {
        name string
        p    booking.ReserveParams
        want error
    }{
        {"bad date", params(clientID, "01.06.2025", "10:00"), booking.ErrInvalidInput},
        {"bad time", params(clientID, "2025-06-01", "25:99"), booking.ErrInvalidInput},
        {"zero client", params(0, "2025-06-01", "10:00"), booking.ErrInvalidInput},
        {"unknown master", booking.ReserveParams{ClientID: clientID, MasterID: 999, ServiceID: serviceID, Date: "2025-06-01", Time: "10:00"}, booking.ErrNotFound},
        {"unknown service", booking.ReserveParams{ClientID: clientID, MasterID: masterID, ServiceID: 999, Date: "2025-06-01", Time: "10:00"}, booking.ErrNotFound},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            _, err := ledger.Reserve(ctx, tc.p)
            assert.ErrorIs(t, err, tc.want)
        })
    }
}

func TestReserveAcceptsSecondsInTime(t *testing.T) {
    ledger, _ := newLedger()

    appt, err := ledger.Reserve(context.Background(), params(clientID, "2025-06-01", "10:00:00"))
    require.NoError(t, err)
    assert.Equal(t, "10:00", appt.Time, "time normalizes to minute precision")
}

// TestReserveRace exercises the concurrency property: two simultaneous
// reserves for the identical tuple, exactly one wins.
func TestReserveRace(t *testing.T) {
    ledger, store := newLedger()
    ctx := context.Background()

    start := make(chan struct{})
    errs := make([]error, 2)
    var wg sync.WaitGroup
    for i := 0; i < 2; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            <-start
            _, errs[i] = ledger.Reserve(ctx, params(uint64(20+i), "2025-06-01", "10:00"))
        }(i)
    }
    close(start)
    wg.Wait()

    var won, lost int
    for _, err := range errs {
        switch {
        case err == nil:
            won++
        case assert.ErrorIs(t, err, booking.ErrSlotTaken):
            lost++
        }
    }
    assert.Equal(t, 1, won, "exactly one reserve must succeed")
    assert.Equal(t, 1, lost, "the other must observe SlotTaken")
    assert.Equal(t, 1, store.activeCount(masterID, "2025-06-01", "10:00"))
}

// TestExclusivityUnderLoad hammers one slot from many goroutines and
// checks the invariant afterwards: at most one active appointment.
func TestExclusivityUnderLoad(t *testing.T) {
    ledger, store := newLedger()
    ctx := context.Background()

    const workers = 16
    var wg sync.WaitGroup
    for i := 0; i < workers; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, _ = ledger.Reserve(ctx, params(uint64(100+i), "2025-07-15", "12:30"))
        }(i)
    }
    wg.Wait()

    assert.Equal(t, 1, store.activeCount(masterID, "2025-07-15", "12:30"))
    assert.Equal(t, 1, store.total())
}

func TestCancel(t *testing.T) {
    ledger, store := newLedger()
    ctx := context.Background()
    now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

    appt, err := ledger.Reserve(ctx, params(clientID, "2025-06-01", "10:00"))
    require.NoError(t, err)

    t.Run("wrong client", func(t *testing.T) {
        _, err := ledger.Cancel(ctx, appt.ID, client2ID, now)
        assert.ErrorIs(t, err, booking.ErrNotFound)
        assert.Equal(t, model.StatusPending, store.status(t, appt.ID))
    })

    t.Run("past appointment", func(t *testing.T) {
        late := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
        _, err := ledger.Cancel(ctx, appt.ID, clientID, late)
        assert.ErrorIs(t, err, booking.ErrPastAppointment)
        assert.Equal(t, model.StatusPending, store.status(t, appt.ID))
    })

    t.Run("ok", func(t *testing.T) {
        got, err := ledger.Cancel(ctx, appt.ID, clientID, now)
        require.NoError(t, err)
        assert.Equal(t, model.StatusCancelled, got.Status)
        assert.Equal(t, model.StatusCancelled, store.status(t, appt.ID))
    })

    t.Run("slot freed after cancel", func(t *testing.T) {
        free, err := ledger.IsAvailable(ctx, masterID, "2025-06-01", "10:00", 0)
        require.NoError(t, err)
        assert.True(t, free, "cancelled appointment releases its slot")
    })
}

func TestCancelYesterday(t *testing.T) {
    ledger, store := newLedger()
    ctx := context.Background()

    appt, err := ledger.Reserve(ctx, params(clientID, "2025-06-01", "10:00"))
    require.NoError(t, err)

    now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
    _, err = ledger.Cancel(ctx, appt.ID, clientID, now)
    assert.ErrorIs(t, err, booking.ErrPastAppointment)
    assert.Equal(t, model.StatusPending, store.status(t, appt.ID))
}

func TestLifecycle(t *testing.T) {
    ledger, store := newLedger()
    ctx := context.Background()
    now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

    appt, err := ledger.Reserve(ctx, params(clientID, "2025-06-01", "10:00"))
    require.NoError(t, err)

    confirmed, err := ledger.Confirm(ctx, appt.ID, masterID)
    require.NoError(t, err)
    assert.Equal(t, model.StatusConfirmed, confirmed.Status)

    // Confirm again: idempotent no-op.
    again, err := ledger.Confirm(ctx, appt.ID, masterID)
    require.NoError(t, err)
    assert.Equal(t, model.StatusConfirmed, again.Status)

    completed, err := ledger.Complete(ctx, appt.ID, masterID)
    require.NoError(t, err)
    assert.Equal(t, model.StatusCompleted, completed.Status)

    // A later cancel attempt by the client hits the terminal status.
    _, err = ledger.Cancel(ctx, appt.ID, clientID, now)
    assert.ErrorIs(t, err, booking.ErrAlreadyFinal)
    assert.Equal(t, model.StatusCompleted, store.status(t, appt.ID))
}

func TestTerminalStatusesAreClosed(t *testing.T) {
    ctx := context.Background()
    now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

    finalize := map[string]func(l *booking.Ledger, id uint64) error{
        "cancelled": func(l *booking.Ledger, id uint64) error {
            _, err := l.Cancel(ctx, id, clientID, now)
            return err
        },
        "completed": func(l *booking.Ledger, id uint64) error {
            _, err := l.Complete(ctx, id, masterID)
            return err
        },
        "no_show": func(l *booking.Ledger, id uint64) error {
            _, err := l.MarkNoShow(ctx, id, masterID)
            return err
        },
    }

    for name, fin := range finalize {
        t.Run(name, func(t *testing.T) {
            ledger, store := newLedger()
            appt, err := ledger.Reserve(ctx, params(clientID, "2025-06-01", "10:00"))
            require.NoError(t, err)
            require.NoError(t, fin(ledger, appt.ID))

            want := store.status(t, appt.ID)
            require.True(t, want.IsTerminal())

            _, err = ledger.Confirm(ctx, appt.ID, masterID)
            assert.ErrorIs(t, err, booking.ErrAlreadyFinal)
            _, err = ledger.Complete(ctx, appt.ID, masterID)
            assert.ErrorIs(t, err, booking.ErrAlreadyFinal)
            _, err = ledger.MarkNoShow(ctx, appt.ID, masterID)
            assert.ErrorIs(t, err, booking.ErrAlreadyFinal)
            _, err = ledger.Cancel(ctx, appt.ID, clientID, now)
            assert.ErrorIs(t, err, booking.ErrAlreadyFinal)

            assert.Equal(t, want, store.status(t, appt.ID), "terminal status must not change")
        })
    }
}

func TestMasterActionsRequireOwnership(t *testing.T) {
    ledger, _ := newLedger()
    ctx := context.Background()

    appt, err := ledger.Reserve(ctx, params(clientID, "2025-06-01", "10:00"))
    require.NoError(t, err)

    _, err = ledger.Confirm(ctx, appt.ID, master2ID)
    assert.ErrorIs(t, err, booking.ErrNotFound)
    _, err = ledger.Complete(ctx, appt.ID, master2ID)
    assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestIsAvailableExcluding(t *testing.T) {
    ledger, _ := newLedger()
    ctx := context.Background()

    appt, err := ledger.Reserve(ctx, params(clientID, "2025-06-01", "10:00"))
    require.NoError(t, err)

    // Excluding the appointment itself, the slot reads as free: this is
    // the re-check used when moving an appointment to a new time.
    free, err := ledger.IsAvailable(ctx, masterID, "2025-06-01", "10:00", appt.ID)
    require.NoError(t, err)
    assert.True(t, free)
}
