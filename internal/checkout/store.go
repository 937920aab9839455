package checkout

import (
    "context"
    "database/sql"
    "fmt"

    "github.com/cinemasahara/booking-service/internal/model"
    "github.com/cinemasahara/booking-service/internal/repository"
)

// SQLStore is the MySQL-backed BookingStore.  A single transaction
// sweeps expired holds, verifies every selected seat is still FREE,
// flips them to RESERVED and inserts the booking row.  Either the
// whole confirmation lands or none of it does.
type SQLStore struct {
    DB       *sql.DB
    Seats    *repository.ScreeningSeatRepo
    Holds    *repository.SeatHoldRepo
    Bookings *repository.BookingRepo
}

// NewSQLStore wires a SQLStore over the shared repositories.
func NewSQLStore(db *sql.DB, seats *repository.ScreeningSeatRepo, holds *repository.SeatHoldRepo, bookings *repository.BookingRepo) *SQLStore {
    return &SQLStore{DB: db, Seats: seats, Holds: holds, Bookings: bookings}
}

// CreateBooking implements BookingStore.
func (st *SQLStore) CreateBooking(ctx context.Context, b *model.Booking) error {
    tx, err := st.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        }
    }()

    // Release anything whose hold ran out before checking availability.
    expired, err := st.Holds.ExpireHoldsTx(ctx, tx, b.ScreeningID)
    if err != nil {
        return err
    }
    if err = st.Seats.BulkUpdateStatusTx(ctx, tx, b.ScreeningID, expired, model.SeatFree); err != nil {
        return err
    }

    // The user's own review holds come off too, so their seats count
    // as FREE for the availability check below.
    released, err := st.Holds.DeleteByUserAndScreeningTx(ctx, tx, b.UserID, b.ScreeningID)
    if err != nil {
        return err
    }
    if err = st.Seats.BulkUpdateStatusTx(ctx, tx, b.ScreeningID, released, model.SeatFree); err != nil {
        return err
    }

    free, err := st.Seats.FilterFreeByLabelsTx(ctx, tx, b.ScreeningID, b.SelectedSeats)
    if err != nil {
        return err
    }
    if len(free) != len(b.SelectedSeats) {
        err = ErrSeatConflict
        return err
    }

    seatIDs := make([]uint64, 0, len(free))
    for _, seat := range free {
        seatIDs = append(seatIDs, seat.ID)
    }
    if err = st.Seats.BulkUpdateStatusTx(ctx, tx, b.ScreeningID, seatIDs, model.SeatReserved); err != nil {
        return err
    }

    if err = st.Bookings.CreateTx(ctx, tx, b); err != nil {
        return err
    }

    if err = tx.Commit(); err != nil {
        return fmt.Errorf("commit booking: %w", err)
    }
    return nil
}
