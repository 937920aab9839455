package repository

import (
    "context"
    "crypto/rand"
    "database/sql"
    "encoding/hex"
    "time"
)

// SeatHoldRecord represents the persistence model for a seat hold.  It
// is used internally by the repository layer when creating and querying
// holds.  A hold pins a screening seat to a user for a limited time
// while their checkout session is open.
type SeatHoldRecord struct {
    ID          uint64    // primary key of the seat_holds row
    UserID      uint64    // user who holds the seat; zero for anonymous checkout sessions
    ScreeningID uint64    // screening to which this seat belongs
    SeatID      uint64    // screening_seats row being held
    HoldToken   string    // opaque token returned to the client for correlation
    ExpiresAt   time.Time // expiration timestamp
    CreatedAt   time.Time // creation timestamp
}

// SeatHoldRepo provides data access to the seat_holds table.  It is
// responsible for creating, listing and deleting seat holds.  All methods
// behave with respect to UTC timestamps – callers must ensure that
// expiration comparisons are performed in UTC.
type SeatHoldRepo struct {
    db *sql.DB
}

// NewSeatHoldRepo returns a new SeatHoldRepo bound to the provided database.
func NewSeatHoldRepo(db *sql.DB) *SeatHoldRepo { return &SeatHoldRepo{db: db} }

// ExpireHoldsTx removes all seat holds for a given screening that have
// expired and returns the seat IDs whose holds were removed.  A hold is
// considered expired when its expires_at timestamp is less than or equal
// to the current UTC time.  The caller must supply an existing
// transaction and is responsible for committing or rolling back.  After
// calling ExpireHoldsTx, callers should update the corresponding
// screening_seats.status values back to "FREE" for the returned seat IDs.
//
// When there are no expired holds, it returns an empty slice and nil error.
func (r *SeatHoldRepo) ExpireHoldsTx(ctx context.Context, tx *sql.Tx, screeningID uint64) ([]uint64, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT seat_id FROM seat_holds WHERE screening_id = ? AND expires_at <= UTC_TIMESTAMP()`,
        screeningID,
    )
    if err != nil {
        return nil, err
    }
    var expiredSeatIDs []uint64
    for rows.Next() {
        var sid uint64
        if scanErr := rows.Scan(&sid); scanErr != nil {
            rows.Close()
            return nil, scanErr
        }
        expiredSeatIDs = append(expiredSeatIDs, sid)
    }
    if err = rows.Close(); err != nil {
        return nil, err
    }
    if len(expiredSeatIDs) == 0 {
        return []uint64{}, nil
    }
    _, err = tx.ExecContext(ctx,
        `DELETE FROM seat_holds WHERE screening_id = ? AND expires_at <= UTC_TIMESTAMP()`,
        screeningID,
    )
    if err != nil {
        return nil, err
    }
    return expiredSeatIDs, nil
}

// randomToken generates a random hexadecimal string of length n*2 bytes.
// It is used to populate the hold_token column.  The underlying call to
// crypto/rand ensures cryptographically secure random bytes.
func randomToken(n int) (string, error) {
    b := make([]byte, n)
    if _, err := rand.Read(b); err != nil {
        return "", err
    }
    return hex.EncodeToString(b), nil
}

// CreateMultipleTx inserts multiple seat_holds within the provided
// transaction.  Each hold must specify ScreeningID, SeatID, UserID,
// HoldToken and ExpiresAt.  The CreatedAt column is automatically set
// by the database.  Passing an empty slice has no effect and returns nil.
func (r *SeatHoldRepo) CreateMultipleTx(ctx context.Context, tx *sql.Tx, holds []SeatHoldRecord) error {
    if len(holds) == 0 {
        return nil
    }
    query := `INSERT INTO seat_holds (user_id, screening_id, seat_id, hold_token, expires_at) VALUES `
    args := make([]interface{}, 0, len(holds)*5)
    for i, h := range holds {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?)"
        args = append(args, h.UserID, h.ScreeningID, h.SeatID, h.HoldToken, h.ExpiresAt.UTC().Format("2006-01-02 15:04:05"))
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// DeleteByUserAndScreeningTx removes all seat_holds for the specified
// user and screening.  It returns the seat IDs that were released so
// that callers may update associated screening_seats.  The deletion
// occurs within the provided transaction; the caller must commit or
// roll back accordingly.
func (r *SeatHoldRepo) DeleteByUserAndScreeningTx(ctx context.Context, tx *sql.Tx, userID, screeningID uint64) ([]uint64, error) {
    rows, err := tx.QueryContext(ctx, `SELECT seat_id FROM seat_holds WHERE user_id = ? AND screening_id = ?`, userID, screeningID)
    if err != nil {
        return nil, err
    }
    var seatIDs []uint64
    for rows.Next() {
        var sid uint64
        if scanErr := rows.Scan(&sid); scanErr != nil {
            rows.Close()
            return nil, scanErr
        }
        seatIDs = append(seatIDs, sid)
    }
    if err = rows.Close(); err != nil {
        return nil, err
    }
    if _, err = tx.ExecContext(ctx, `DELETE FROM seat_holds WHERE user_id = ? AND screening_id = ?`, userID, screeningID); err != nil {
        return nil, err
    }
    return seatIDs, nil
}

// GenerateHoldRecords builds seat hold records for the given user,
// screening and seat IDs.  A new random token is generated for each
// seat.  The expiration is set to the provided timestamp.  This helper
// is used prior to calling CreateMultipleTx.
func GenerateHoldRecords(userID, screeningID uint64, seatIDs []uint64, expiresAt time.Time) ([]SeatHoldRecord, error) {
    holds := make([]SeatHoldRecord, 0, len(seatIDs))
    for _, sid := range seatIDs {
        token, err := randomToken(32)
        if err != nil {
            return nil, err
        }
        holds = append(holds, SeatHoldRecord{
            UserID:      userID,
            ScreeningID: screeningID,
            SeatID:      sid,
            HoldToken:   token,
            ExpiresAt:   expiresAt,
        })
    }
    return holds, nil
}
