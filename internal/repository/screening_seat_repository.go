package repository // repository for screening seat persistence

import (
    "context"
    "database/sql"
    "strings"

    "github.com/cinemasahara/booking-service/internal/model"
)

// ScreeningSeatRepo encapsulates database operations for screening_seats.
// Each combination of screening and seat label is unique.  Status
// transitions (FREE -> HELD -> RESERVED and back to FREE) bump the
// version column so that stale writers lose.
type ScreeningSeatRepo struct {
    db *sql.DB
}

// NewScreeningSeatRepo constructs a ScreeningSeatRepo given a DB handle.
func NewScreeningSeatRepo(db *sql.DB) *ScreeningSeatRepo {
    return &ScreeningSeatRepo{db: db}
}

// CreateBulkTx inserts multiple screening_seat records in one statement
// within the provided transaction.  Only screening_id, seat_label,
// row_label, seat_number, category, price and status are inserted;
// version defaults to 0 in the DB.  The ID fields of the passed
// structures are not populated.
func (r *ScreeningSeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.ScreeningSeat) error {
    if len(seats) == 0 {
        return nil
    }
    query := `INSERT INTO screening_seats (screening_id, seat_label, row_label, seat_number, category, price, status) VALUES `
    args := make([]interface{}, 0, len(seats)*7)
    for i, ss := range seats {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?, ?, ?)"
        args = append(args, ss.ScreeningID, ss.SeatLabel, ss.RowLabel, ss.SeatNumber, string(ss.Category), ss.Price, ss.Status)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// ListByScreening returns every seat row for the given screening in
// layout order (row letter, then seat number).  When the screening has
// no seats it returns an empty slice and nil error.
func (r *ScreeningSeatRepo) ListByScreening(ctx context.Context, screeningID uint64) ([]model.ScreeningSeat, error) {
    const q = `SELECT id, screening_id, seat_label, row_label, seat_number, category, price, status, version
               FROM screening_seats
               WHERE screening_id = ?
               ORDER BY row_label ASC, seat_number ASC`
    rows, err := r.db.QueryContext(ctx, q, screeningID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]model.ScreeningSeat, 0)
    for rows.Next() {
        var ss model.ScreeningSeat
        var cat string
        if err := rows.Scan(&ss.ID, &ss.ScreeningID, &ss.SeatLabel, &ss.RowLabel, &ss.SeatNumber, &cat, &ss.Price, &ss.Status, &ss.Version); err != nil {
            return nil, err
        }
        ss.Category = model.SeatCategory(cat)
        result = append(result, ss)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// FilterFreeByLabelsTx selects, with a row lock, the seats for a
// screening that match the given labels and are currently FREE.  It is
// used during checkout confirmation to decide which requested seats can
// still be reserved.  Callers compare the returned rows against the
// requested labels; any label missing from the result is taken by
// someone else.  The caller must commit or roll back the transaction.
func (r *ScreeningSeatRepo) FilterFreeByLabelsTx(ctx context.Context, tx *sql.Tx, screeningID uint64, labels []string) ([]model.ScreeningSeat, error) {
    if len(labels) == 0 {
        return []model.ScreeningSeat{}, nil
    }
    placeholders := make([]string, 0, len(labels))
    args := make([]interface{}, 0, len(labels)+1)
    args = append(args, screeningID)
    for _, l := range labels {
        placeholders = append(placeholders, "?")
        args = append(args, l)
    }
    q := `SELECT id, screening_id, seat_label, row_label, seat_number, category, price, status, version
          FROM screening_seats
          WHERE screening_id = ? AND status = 'FREE' AND seat_label IN (` + strings.Join(placeholders, ",") + `)
          FOR UPDATE`
    rows, err := tx.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var result []model.ScreeningSeat
    for rows.Next() {
        var ss model.ScreeningSeat
        var cat string
        if err := rows.Scan(&ss.ID, &ss.ScreeningID, &ss.SeatLabel, &ss.RowLabel, &ss.SeatNumber, &cat, &ss.Price, &ss.Status, &ss.Version); err != nil {
            return nil, err
        }
        ss.Category = model.SeatCategory(cat)
        result = append(result, ss)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// BulkUpdateStatusTx sets the status for the given seat IDs of a
// screening and bumps each row's version.  The update occurs within the
// provided transaction; the caller must commit or roll back.  Passing
// an empty slice has no effect and returns nil.
func (r *ScreeningSeatRepo) BulkUpdateStatusTx(ctx context.Context, tx *sql.Tx, screeningID uint64, seatIDs []uint64, status string) error {
    if len(seatIDs) == 0 {
        return nil
    }
    placeholders := make([]string, 0, len(seatIDs))
    args := make([]interface{}, 0, len(seatIDs)+2)
    args = append(args, status, screeningID)
    for _, id := range seatIDs {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    q := `UPDATE screening_seats
          SET status = ?, version = version + 1
          WHERE screening_id = ? AND id IN (` + strings.Join(placeholders, ",") + `)`
    _, err := tx.ExecContext(ctx, q, args...)
    return err
}

// FreeByLabelsTx releases the given seat labels of a screening back to
// FREE.  It is used when a booking is cancelled, where only the seat
// labels survive on the booking record.  Rows already FREE are left
// untouched so their version does not churn.
func (r *ScreeningSeatRepo) FreeByLabelsTx(ctx context.Context, tx *sql.Tx, screeningID uint64, labels []string) error {
    if len(labels) == 0 {
        return nil
    }
    placeholders := make([]string, 0, len(labels))
    args := make([]interface{}, 0, len(labels)+1)
    args = append(args, screeningID)
    for _, l := range labels {
        placeholders = append(placeholders, "?")
        args = append(args, l)
    }
    q := `UPDATE screening_seats
          SET status = 'FREE', version = version + 1
          WHERE screening_id = ? AND status <> 'FREE' AND seat_label IN (` + strings.Join(placeholders, ",") + `)`
    _, err := tx.ExecContext(ctx, q, args...)
    return err
}
