package handler // handler defines http handlers

import (
    "context"
    "database/sql"
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/cinemasahara/booking-service/internal/model"
    "github.com/cinemasahara/booking-service/internal/repository"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) { // begin getUserID helper
    v := c.Get("user_id") // fetch user_id from context
    switch t := v.(type) { // perform type switch on the value
    case uint64: // when already uint64
        return t, nil // return directly
    case int: // when stored as int
        return uint64(t), nil // convert to uint64
    case int64: // when stored as int64
        return uint64(t), nil // convert to uint64
    case float64: // when stored as float64
        return uint64(t), nil // convert to uint64
    case string: // when stored as string
        if n, err := strconv.ParseUint(t, 10, 64); err == nil { // parse string to uint64
            return n, nil // return parsed number
        }
    } // end type switch
    return 0, errors.New("invalid user_id in context") // return error if value is missing or invalid
}

// releaseExpiredHolds sweeps expired seat holds for a screening and
// frees the underlying seats.  It runs in its own transaction so read
// paths can call it before listing availability.
func releaseExpiredHolds(ctx context.Context, db *sql.DB, holds *repository.SeatHoldRepo, seats *repository.ScreeningSeatRepo, screeningID uint64) error {
    tx, err := db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    expired, err := holds.ExpireHoldsTx(ctx, tx, screeningID)
    if err != nil {
        _ = tx.Rollback()
        return err
    }
    if err := seats.BulkUpdateStatusTx(ctx, tx, screeningID, expired, model.SeatFree); err != nil {
        _ = tx.Rollback()
        return err
    }
    return tx.Commit()
}
