package checkout

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinemasahara/booking-service/internal/bookingcode"
    "github.com/cinemasahara/booking-service/internal/model"
    "github.com/cinemasahara/booking-service/internal/queue"
    "github.com/cinemasahara/booking-service/internal/repository"
    "github.com/cinemasahara/booking-service/internal/seatmap"
)

// fakeStore records bookings instead of touching MySQL.  Its err queue
// lets tests script failures for successive CreateBooking calls.
type fakeStore struct {
    bookings []model.Booking
    codes    []string
    errs     []error
    calls    int
}

func (f *fakeStore) CreateBooking(_ context.Context, b *model.Booking) error {
    f.calls++
    f.codes = append(f.codes, b.BookingCode)
    if len(f.errs) > 0 {
        err := f.errs[0]
        f.errs = f.errs[1:]
        if err != nil {
            return err
        }
    }
    b.ID = uint64(len(f.bookings) + 1)
    b.CreatedAt = time.Now().UTC()
    f.bookings = append(f.bookings, *b)
    return nil
}

func testScreening() *model.Screening {
    return &model.Screening{
        ID:         7,
        MovieTitle: "Indiana Jones 5",
        ShowDate:   "2026-09-12",
        ShowTime:   "20:30",
        Status:     model.ScreeningScheduled,
    }
}

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *time.Time) {
    t.Helper()
    now := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
    m := NewManager(ttl)
    m.clock = func() time.Time { return now }
    return m, &now
}

func TestSessionToggleAndTotals(t *testing.T) {
    m, _ := newTestManager(t, 10*time.Minute)
    s := m.Create(testScreening(), seatmap.Seats(), []string{"A3"}, 0)

    on, err := s.ToggleSeat(m.Now(), "A1")
    require.NoError(t, err)
    assert.True(t, on)
    on, err = s.ToggleSeat(m.Now(), "E1")
    require.NoError(t, err)
    assert.True(t, on)

    snap := s.Snapshot(m.Now())
    assert.Equal(t, StateSeatSelection, snap.State)
    assert.Equal(t, uint32(200), snap.Subtotal) // 80 + 120
    assert.Equal(t, uint32(10), snap.ServiceFee)
    assert.Equal(t, uint32(210), snap.Total)

    // Toggling again deselects.
    on, err = s.ToggleSeat(m.Now(), "E1")
    require.NoError(t, err)
    assert.False(t, on)
    assert.Equal(t, uint32(80), s.Snapshot(m.Now()).Subtotal)

    // Occupied seats never enter the selection.
    on, err = s.ToggleSeat(m.Now(), "A3")
    require.NoError(t, err)
    assert.False(t, on)
    // Unknown labels are ignored too.
    on, err = s.ToggleSeat(m.Now(), "Z99")
    require.NoError(t, err)
    assert.False(t, on)
}

func TestSessionCountdownExpiry(t *testing.T) {
    m, now := newTestManager(t, 5*time.Second)
    s := m.Create(testScreening(), seatmap.Seats(), nil, 0)

    _, err := s.ToggleSeat(m.Now(), "B2")
    require.NoError(t, err)
    assert.Equal(t, int64(5), s.Snapshot(m.Now()).RemainingSeconds)

    *now = now.Add(3 * time.Second)
    assert.Equal(t, StateSeatSelection, s.State(m.Now()))
    assert.Equal(t, 2*time.Second, s.Remaining(m.Now()))

    *now = now.Add(2 * time.Second)
    assert.Equal(t, StateExpired, s.State(m.Now()))
    assert.Equal(t, time.Duration(0), s.Remaining(m.Now()))

    // Everything after expiry reports ErrSessionExpired.
    _, err = s.ToggleSeat(m.Now(), "B3")
    assert.ErrorIs(t, err, ErrSessionExpired)
    assert.ErrorIs(t, s.Review(m.Now()), ErrSessionExpired)

    // The expired snapshot carries no seats.
    snap := s.Snapshot(m.Now())
    assert.Equal(t, StateExpired, snap.State)
    assert.Empty(t, snap.Seats)
    assert.Zero(t, snap.RemainingSeconds)
}

func TestSessionCountdownExpiryDuringReview(t *testing.T) {
    m, now := newTestManager(t, 5*time.Second)
    s := m.Create(testScreening(), seatmap.Seats(), nil, 9)

    _, err := s.ToggleSeat(m.Now(), "E7")
    require.NoError(t, err)
    require.NoError(t, s.Review(m.Now()))
    require.Equal(t, StateReview, s.State(m.Now()))

    *now = now.Add(5 * time.Second)

    // The countdown keeps running while the summary is on screen.
    assert.Equal(t, StateExpired, s.State(m.Now()))
    assert.ErrorIs(t, s.Back(m.Now()), ErrSessionExpired)

    store := &fakeStore{}
    g := NewGateway(store, nil)
    _, err = g.Confirm(context.Background(), s, 9, m.Now())
    assert.ErrorIs(t, err, ErrSessionExpired)
    assert.Zero(t, store.calls)

    snap := s.Snapshot(m.Now())
    assert.Equal(t, StateExpired, snap.State)
    assert.Empty(t, snap.Seats)
    assert.Zero(t, snap.Total)
}

func TestSessionReviewTransitions(t *testing.T) {
    m, _ := newTestManager(t, 10*time.Minute)
    s := m.Create(testScreening(), seatmap.Seats(), nil, 0)

    // Review with an empty selection is refused.
    assert.ErrorIs(t, s.Review(m.Now()), ErrNoSeats)

    _, err := s.ToggleSeat(m.Now(), "E7")
    require.NoError(t, err)
    require.NoError(t, s.Review(m.Now()))
    assert.Equal(t, StateReview, s.State(m.Now()))

    // No toggling while reviewing.
    _, err = s.ToggleSeat(m.Now(), "E8")
    assert.ErrorIs(t, err, ErrWrongState)

    // Back keeps the selection.
    require.NoError(t, s.Back(m.Now()))
    assert.Equal(t, StateSeatSelection, s.State(m.Now()))
    assert.Equal(t, []string{"E7"}, s.Snapshot(m.Now()).SeatLabels())

    s.Close(m.Now())
    assert.Equal(t, StateClosed, s.State(m.Now()))
    assert.ErrorIs(t, s.Review(m.Now()), ErrWrongState)
}

func TestConfirmRequiresAuthentication(t *testing.T) {
    m, _ := newTestManager(t, 10*time.Minute)
    s := m.Create(testScreening(), seatmap.Seats(), nil, 0)
    _, err := s.ToggleSeat(m.Now(), "A1")
    require.NoError(t, err)
    require.NoError(t, s.Review(m.Now()))

    store := &fakeStore{}
    g := NewGateway(store, nil)

    _, err = g.Confirm(context.Background(), s, 0, m.Now())
    assert.ErrorIs(t, err, ErrUnauthenticated)
    // The gate fires before any storage work and leaves the session
    // reviewable.
    assert.Zero(t, store.calls)
    assert.Equal(t, StateReview, s.State(m.Now()))
}

func TestConfirmPersistsBooking(t *testing.T) {
    m, _ := newTestManager(t, 10*time.Minute)
    s := m.Create(testScreening(), seatmap.Seats(), nil, 0)
    for _, label := range []string{"E7", "E8"} {
        _, err := s.ToggleSeat(m.Now(), label)
        require.NoError(t, err)
    }
    require.NoError(t, s.Review(m.Now()))

    store := &fakeStore{}
    var published []queue.BookingConfirmedEvent
    g := NewGateway(store, func(_ context.Context, ev queue.BookingConfirmedEvent) error {
        published = append(published, ev)
        return nil
    })

    b, err := g.Confirm(context.Background(), s, 42, m.Now())
    require.NoError(t, err)
    require.Len(t, store.bookings, 1)

    assert.Equal(t, uint64(42), b.UserID)
    assert.Equal(t, uint64(7), b.ScreeningID)
    assert.Equal(t, "Indiana Jones 5", b.MovieTitle)
    assert.Equal(t, []string{"E7", "E8"}, b.SelectedSeats)
    assert.Equal(t, uint32(252), b.TotalPrice) // 2 x 120 + 12 fee
    assert.True(t, bookingcode.Valid(b.BookingCode))

    snap := s.Snapshot(m.Now())
    assert.Equal(t, StateCompleted, snap.State)
    assert.Equal(t, b.BookingCode, snap.BookingCode)

    require.Len(t, published, 1)
    assert.Equal(t, b.BookingCode, published[0].BookingCode)
    assert.Equal(t, []string{"E7", "E8"}, published[0].SeatLabels)
}

func TestConfirmRetriesDuplicateCodeOnce(t *testing.T) {
    m, _ := newTestManager(t, 10*time.Minute)
    s := m.Create(testScreening(), seatmap.Seats(), nil, 0)
    _, err := s.ToggleSeat(m.Now(), "A1")
    require.NoError(t, err)
    require.NoError(t, s.Review(m.Now()))

    store := &fakeStore{errs: []error{repository.ErrDuplicateCode}}
    g := NewGateway(store, nil)

    b, err := g.Confirm(context.Background(), s, 42, m.Now())
    require.NoError(t, err)
    assert.Equal(t, 2, store.calls)
    require.Len(t, store.codes, 2)
    assert.NotEqual(t, store.codes[0], store.codes[1])
    assert.Equal(t, store.codes[1], b.BookingCode)
}

func TestConfirmSeatConflictKeepsSessionReviewable(t *testing.T) {
    m, _ := newTestManager(t, 10*time.Minute)
    s := m.Create(testScreening(), seatmap.Seats(), nil, 0)
    _, err := s.ToggleSeat(m.Now(), "A1")
    require.NoError(t, err)
    require.NoError(t, s.Review(m.Now()))

    store := &fakeStore{errs: []error{ErrSeatConflict}}
    g := NewGateway(store, nil)

    _, err = g.Confirm(context.Background(), s, 42, m.Now())
    assert.ErrorIs(t, err, ErrSeatConflict)
    assert.Equal(t, StateReview, s.State(m.Now()))
}

func TestConfirmWrapsStorageFailures(t *testing.T) {
    m, _ := newTestManager(t, 10*time.Minute)
    s := m.Create(testScreening(), seatmap.Seats(), nil, 0)
    _, err := s.ToggleSeat(m.Now(), "A1")
    require.NoError(t, err)
    require.NoError(t, s.Review(m.Now()))

    store := &fakeStore{errs: []error{errors.New("connection refused")}}
    g := NewGateway(store, nil)

    _, err = g.Confirm(context.Background(), s, 42, m.Now())
    assert.ErrorIs(t, err, ErrPersistence)
    // Retryable: the session survives the outage.
    assert.Equal(t, StateReview, s.State(m.Now()))

    store.errs = nil
    _, err = g.Confirm(context.Background(), s, 42, m.Now())
    assert.NoError(t, err)
}

func TestConfirmPublishFailureDoesNotFailBooking(t *testing.T) {
    m, _ := newTestManager(t, 10*time.Minute)
    s := m.Create(testScreening(), seatmap.Seats(), nil, 0)
    _, err := s.ToggleSeat(m.Now(), "A1")
    require.NoError(t, err)
    require.NoError(t, s.Review(m.Now()))

    g := NewGateway(&fakeStore{}, func(_ context.Context, _ queue.BookingConfirmedEvent) error {
        return errors.New("broker down")
    })

    b, err := g.Confirm(context.Background(), s, 42, m.Now())
    require.NoError(t, err)
    assert.NotEmpty(t, b.BookingCode)
    assert.Equal(t, StateCompleted, s.State(m.Now()))
}

func TestManagerSweepRemovesFinishedSessions(t *testing.T) {
    m, now := newTestManager(t, time.Minute)
    active := m.Create(testScreening(), seatmap.Seats(), nil, 0)
    closed := m.Create(testScreening(), seatmap.Seats(), nil, 0)
    closed.Close(m.Now())

    // Nothing old enough yet.
    assert.Zero(t, m.Sweep())

    *now = now.Add(3 * time.Minute)
    removed := m.Sweep()
    assert.Equal(t, 2, removed) // both expired/closed and past retention

    _, err := m.Get(active.ID)
    assert.ErrorIs(t, err, ErrSessionNotFound)
    _, err = m.Get(closed.ID)
    assert.ErrorIs(t, err, ErrSessionNotFound)
}
