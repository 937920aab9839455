// Package checkout implements the seat-selection checkout flow.  A
// session walks a visitor from the seat grid through review to a
// confirmed booking under a server-side countdown.  Sessions live in
// memory; only a confirmed booking touches the database.
package checkout

import (
    "errors"
    "sync"
    "time"

    "github.com/cinemasahara/booking-service/internal/model"
    "github.com/cinemasahara/booking-service/internal/selection"
)

// State of a checkout session.
type State string

// Session states.  SEAT_SELECTION and REVIEW are active; the rest are
// terminal.
const (
    StateSeatSelection State = "SEAT_SELECTION"
    StateReview        State = "REVIEW"
    StateCompleted     State = "COMPLETED"
    StateExpired       State = "EXPIRED"
    StateClosed        State = "CLOSED"
)

// Sentinel errors returned by sessions and the confirmation gateway.
var (
    // ErrSessionNotFound indicates an unknown or already swept session ID.
    ErrSessionNotFound = errors.New("checkout session not found")
    // ErrSessionExpired indicates the countdown ran out before the
    // operation.  Handlers should translate this into HTTP 410.
    ErrSessionExpired = errors.New("checkout session expired")
    // ErrWrongState indicates the operation is not valid in the
    // session's current state.
    ErrWrongState = errors.New("operation not valid in current state")
    // ErrNoSeats indicates an attempt to proceed to review with an
    // empty selection.
    ErrNoSeats = errors.New("no seats selected")
    // ErrUnauthenticated indicates confirmation was attempted without
    // a signed-in user.  The session is left untouched.
    ErrUnauthenticated = errors.New("authentication required")
    // ErrSeatConflict indicates at least one selected seat was taken
    // by someone else between selection and confirmation.
    ErrSeatConflict = errors.New("seat no longer available")
    // ErrPersistence wraps storage failures during confirmation.  The
    // session stays in REVIEW so the user can retry.
    ErrPersistence = errors.New("booking could not be saved")
)

// Session is one visitor's checkout for one screening.  All state
// transitions go through its methods; callers pass the current time so
// the countdown can be driven by an injectable clock.  A session is
// safe for concurrent use.
type Session struct {
    ID          string
    UserID      uint64 // zero until an authenticated user is attached
    ScreeningID uint64
    MovieTitle  string
    ShowDate    string
    ShowTime    string

    mu        sync.Mutex
    state     State
    tracker   *selection.Tracker
    createdAt time.Time
    expiresAt time.Time

    bookingID   uint64
    bookingCode string
}

// refreshLocked flips an active session to EXPIRED once the deadline
// has passed.  Callers must hold s.mu.
func (s *Session) refreshLocked(now time.Time) {
    if s.state != StateSeatSelection && s.state != StateReview {
        return
    }
    if !now.Before(s.expiresAt) {
        s.state = StateExpired
        s.tracker.Clear()
    }
}

// State returns the session state after applying the countdown.
func (s *Session) State(now time.Time) State {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.refreshLocked(now)
    return s.state
}

// Remaining returns how much countdown is left.  It is zero for
// terminal sessions and never negative.
func (s *Session) Remaining(now time.Time) time.Duration {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.refreshLocked(now)
    if s.state != StateSeatSelection && s.state != StateReview {
        return 0
    }
    return s.expiresAt.Sub(now)
}

// ToggleSeat flips the membership of a seat in the selection.  Unknown
// and occupied labels are silently ignored.  It returns whether the
// seat is selected after the call.  Toggling is only allowed during
// seat selection.
func (s *Session) ToggleSeat(now time.Time, label string) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.refreshLocked(now)
    switch s.state {
    case StateSeatSelection:
    case StateExpired:
        return false, ErrSessionExpired
    default:
        return false, ErrWrongState
    }
    return s.tracker.Toggle(label), nil
}

// Review moves the session from seat selection to the review step.  At
// least one seat must be selected.
func (s *Session) Review(now time.Time) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.refreshLocked(now)
    switch s.state {
    case StateSeatSelection:
    case StateExpired:
        return ErrSessionExpired
    default:
        return ErrWrongState
    }
    if s.tracker.Count() == 0 {
        return ErrNoSeats
    }
    s.state = StateReview
    return nil
}

// Back returns from review to seat selection with the selection intact.
func (s *Session) Back(now time.Time) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.refreshLocked(now)
    switch s.state {
    case StateReview:
    case StateExpired:
        return ErrSessionExpired
    default:
        return ErrWrongState
    }
    s.state = StateSeatSelection
    return nil
}

// Close cancels an active session.  Closing a terminal session is a
// no-op.
func (s *Session) Close(now time.Time) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.refreshLocked(now)
    if s.state == StateSeatSelection || s.state == StateReview {
        s.state = StateClosed
        s.tracker.Clear()
    }
}

// Deadline returns the countdown deadline.  Seat holds written to the
// database share it so DB holds and the session lapse together.
func (s *Session) Deadline() time.Time {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.expiresAt
}

// Snapshot is the JSON view of a session returned to clients.
type Snapshot struct {
    ID               string       `json:"session_id"`
    ScreeningID      uint64       `json:"screening_id"`
    MovieTitle       string       `json:"movie_title"`
    ShowDate         string       `json:"show_date"`
    ShowTime         string       `json:"show_time"`
    State            State        `json:"state"`
    RemainingSeconds int64        `json:"remaining_seconds"`
    Seats            []model.Seat `json:"selected_seats"`
    Subtotal         uint32       `json:"subtotal"`
    ServiceFee       uint32       `json:"service_fee"`
    Total            uint32       `json:"total"`
    BookingID        uint64       `json:"booking_id,omitempty"`
    BookingCode      string       `json:"booking_code,omitempty"`
}

// SeatLabels returns the labels of the snapshot's seats in layout order.
func (sn Snapshot) SeatLabels() []string {
    out := make([]string, 0, len(sn.Seats))
    for _, s := range sn.Seats {
        out = append(out, s.Label)
    }
    return out
}

// Snapshot renders the session for a client response.
func (s *Session) Snapshot(now time.Time) Snapshot {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.refreshLocked(now)
    snap := Snapshot{
        ID:          s.ID,
        ScreeningID: s.ScreeningID,
        MovieTitle:  s.MovieTitle,
        ShowDate:    s.ShowDate,
        ShowTime:    s.ShowTime,
        State:       s.state,
        Seats:       s.tracker.Selected(),
        Subtotal:    s.tracker.Subtotal(),
        BookingID:   s.bookingID,
        BookingCode: s.bookingCode,
    }
    snap.ServiceFee = selection.ServiceFee(snap.Subtotal)
    snap.Total = snap.Subtotal + snap.ServiceFee
    if s.state == StateSeatSelection || s.state == StateReview {
        if rem := s.expiresAt.Sub(now); rem > 0 {
            snap.RemainingSeconds = int64(rem / time.Second)
        }
    }
    return snap
}

// SelectedSeats returns the chosen seats in layout order.
func (s *Session) SelectedSeats() []model.Seat {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.tracker.Selected()
}
