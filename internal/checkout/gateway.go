package checkout

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/cinemasahara/booking-service/internal/bookingcode"
    "github.com/cinemasahara/booking-service/internal/model"
    "github.com/cinemasahara/booking-service/internal/queue"
    "github.com/cinemasahara/booking-service/internal/repository"
)

// BookingStore persists a confirmed booking.  Implementations reserve
// the seats and insert the booking atomically; they return
// ErrSeatConflict when a selected seat is no longer free and
// repository.ErrDuplicateCode when the booking code collides.
type BookingStore interface {
    CreateBooking(ctx context.Context, b *model.Booking) error
}

// EventPublisher sends a confirmation event to the message broker.
type EventPublisher func(ctx context.Context, ev queue.BookingConfirmedEvent) error

// Gateway turns a reviewed session into a persisted booking.  It is
// the only place the checkout flow touches storage.  Publishing the
// confirmation event is best effort; a broker outage never fails a
// booking that is already saved.
type Gateway struct {
    Store   BookingStore
    Publish EventPublisher
}

// NewGateway constructs a Gateway.  publish may be nil when no broker
// is configured.
func NewGateway(store BookingStore, publish EventPublisher) *Gateway {
    return &Gateway{Store: store, Publish: publish}
}

// Confirm finalises a session for the authenticated user.  The
// pipeline is: authentication gate, countdown check, reserve seats and
// insert the booking in one transaction, then mark the session
// COMPLETED and publish the event.  On any failure before the write
// commits, the session stays in REVIEW so the user can retry.
//
// A zero userID returns ErrUnauthenticated without touching the
// session or storage.
func (g *Gateway) Confirm(ctx context.Context, s *Session, userID uint64, now time.Time) (*model.Booking, error) {
    if userID == 0 {
        return nil, ErrUnauthenticated
    }

    s.mu.Lock()
    defer s.mu.Unlock()
    s.refreshLocked(now)
    switch s.state {
    case StateReview:
    case StateExpired:
        return nil, ErrSessionExpired
    default:
        return nil, ErrWrongState
    }

    seats := s.tracker.Selected()
    if len(seats) == 0 {
        return nil, ErrNoSeats
    }
    labels := make([]string, 0, len(seats))
    for _, seat := range seats {
        labels = append(labels, seat.Label)
    }

    b := &model.Booking{
        UserID:        userID,
        ScreeningID:   s.ScreeningID,
        MovieTitle:    s.MovieTitle,
        ShowDate:      s.ShowDate,
        ShowTime:      s.ShowTime,
        SelectedSeats: labels,
        TotalPrice:    s.tracker.GrandTotal(),
    }

    // One retry with a fresh code covers the rare collision on the
    // unique booking_code index.
    for attempt := 0; ; attempt++ {
        code, err := bookingcode.New()
        if err != nil {
            return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
        }
        b.BookingCode = code
        err = g.Store.CreateBooking(ctx, b)
        if err == nil {
            break
        }
        if errors.Is(err, repository.ErrDuplicateCode) && attempt == 0 {
            continue
        }
        if errors.Is(err, ErrSeatConflict) {
            return nil, ErrSeatConflict
        }
        return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
    }

    s.UserID = userID
    s.state = StateCompleted
    s.bookingID = b.ID
    s.bookingCode = b.BookingCode

    if g.Publish != nil {
        ev := queue.BookingConfirmedEvent{
            BookingID:   b.ID,
            UserID:      b.UserID,
            ScreeningID: b.ScreeningID,
            MovieTitle:  b.MovieTitle,
            ShowDate:    b.ShowDate,
            ShowTime:    b.ShowTime,
            SeatLabels:  b.SelectedSeats,
            TotalPrice:  b.TotalPrice,
            BookingCode: b.BookingCode,
            ConfirmedAt: now.UTC().Format(time.RFC3339),
        }
        if err := g.Publish(ctx, ev); err != nil {
            log.Printf("checkout: publish booking.confirmed failed: %v", err)
        }
    }

    return b, nil
}
