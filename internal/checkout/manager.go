package checkout

import (
    "context"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/cinemasahara/booking-service/internal/model"
    "github.com/cinemasahara/booking-service/internal/selection"
)

// retentionFactor controls how long terminal sessions stay visible
// after they end so clients can still observe the final state.
const retentionFactor = 2

// Manager owns the in-memory session store.  It hands out UUID session
// IDs, applies the countdown TTL, and sweeps finished sessions in the
// background.  The clock is a field so tests can drive time.
type Manager struct {
    mu       sync.RWMutex
    sessions map[string]*Session
    ttl      time.Duration
    clock    func() time.Time
}

// NewManager returns a Manager whose sessions expire ttl after
// creation.
func NewManager(ttl time.Duration) *Manager {
    return &Manager{
        sessions: make(map[string]*Session),
        ttl:      ttl,
        clock:    time.Now,
    }
}

// Now returns the manager's current time.  Handlers use it when
// calling session methods so the whole flow shares one clock.
func (m *Manager) Now() time.Time {
    return m.clock()
}

// Create opens a new checkout session for a screening.  seats is the
// full layout in order; occupied lists the labels unavailable to this
// session (reserved, held, or presold).  userID may be zero for
// anonymous visitors; confirmation will demand authentication later.
func (m *Manager) Create(scr *model.Screening, seats []model.Seat, occupied []string, userID uint64) *Session {
    now := m.clock()
    s := &Session{
        ID:          uuid.NewString(),
        UserID:      userID,
        ScreeningID: scr.ID,
        MovieTitle:  scr.MovieTitle,
        ShowDate:    scr.ShowDate,
        ShowTime:    scr.ShowTime,
        state:       StateSeatSelection,
        tracker:     selection.New(seats, occupied),
        createdAt:   now,
        expiresAt:   now.Add(m.ttl),
    }
    m.mu.Lock()
    m.sessions[s.ID] = s
    m.mu.Unlock()
    return s
}

// Get looks up a session by ID.  It returns ErrSessionNotFound for
// unknown or already swept IDs.  Expiry is not an error here; callers
// observe it through the session state.
func (m *Manager) Get(id string) (*Session, error) {
    m.mu.RLock()
    s, ok := m.sessions[id]
    m.mu.RUnlock()
    if !ok {
        return nil, ErrSessionNotFound
    }
    return s, nil
}

// Remove drops a session from the store.
func (m *Manager) Remove(id string) {
    m.mu.Lock()
    delete(m.sessions, id)
    m.mu.Unlock()
}

// Sweep removes sessions that reached a terminal state longer than the
// retention window ago.  It returns how many were removed.
func (m *Manager) Sweep() int {
    now := m.clock()
    cutoff := now.Add(-retentionFactor * m.ttl)
    m.mu.Lock()
    defer m.mu.Unlock()
    removed := 0
    for id, s := range m.sessions {
        state := s.State(now)
        if state == StateSeatSelection || state == StateReview {
            continue
        }
        if s.createdAt.Before(cutoff) {
            delete(m.sessions, id)
            removed++
        }
    }
    return removed
}

// StartSweeper runs Sweep on the given interval until the context is
// cancelled.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
    ticker := time.NewTicker(interval)
    go func() {
        defer ticker.Stop()
        for {
            select {
            case <-ctx.Done():
                return
            case <-ticker.C:
                m.Sweep()
            }
        }
    }()
}
