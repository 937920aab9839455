// Package repository contains data access logic for screening
// operations. A Screening represents a scheduled showing of a movie
// with a display date and time. Seat availability per screening is
// stored in screening_seats and managed by ScreeningSeatRepo.
package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/cinemasahara/booking-service/internal/model"
)

// ErrScreeningNotFound indicates that a screening was not located in the DB.
var ErrScreeningNotFound = errors.New("screening not found")

// ScreeningRepo manages persistence for screenings.
type ScreeningRepo struct {
    db *sql.DB
}

// NewScreeningRepo constructs a ScreeningRepo with the given DB handle.
func NewScreeningRepo(db *sql.DB) *ScreeningRepo {
    return &ScreeningRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.  Use this method to
// obtain a *sql.DB when you need fine-grained transaction control.
func (r *ScreeningRepo) DB() *sql.DB {
    return r.db
}

// CreateTx inserts a new screening using the provided transaction
// instead of the repository's DB handle.  The caller must commit or
// roll back the transaction.  On success, the generated ID and
// DB-default fields (status, created_at) are populated on the given
// Screening.
func (r *ScreeningRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Screening) error {
    const q = `INSERT INTO screenings (movie_title, show_date, show_time) VALUES (?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, s.MovieTitle, s.ShowDate, s.ShowTime)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    // Query the inserted row to obtain default fields such as status and timestamps.
    const sel = `SELECT id, movie_title, show_date, show_time, status, created_at
                 FROM screenings WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, s.ID).Scan(
        &s.ID,
        &s.MovieTitle,
        &s.ShowDate,
        &s.ShowTime,
        &s.Status,
        &s.CreatedAt,
    )
}

// GetByID retrieves a screening by its ID.  It returns
// ErrScreeningNotFound if there is no matching row.
func (r *ScreeningRepo) GetByID(ctx context.Context, id uint64) (*model.Screening, error) {
    const q = `SELECT id, movie_title, show_date, show_time, status, created_at FROM screenings WHERE id = ?`
    var s model.Screening
    err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.MovieTitle, &s.ShowDate, &s.ShowTime, &s.Status, &s.CreatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrScreeningNotFound
        }
        return nil, err
    }
    return &s, nil
}

// ScreeningSearchQuery defines filters & pagination for searching screenings.
type ScreeningSearchQuery struct {
    Title    string
    Date     string
    Page     int
    PageSize int
}

// Search returns scheduled screenings matching the query along with the
// total number of matches before pagination.  Title matching is a
// case-insensitive substring match; Date, when supplied, must equal the
// stored show_date exactly.  Results are ordered by date then time.
func (r *ScreeningRepo) Search(ctx context.Context, q ScreeningSearchQuery) ([]model.Screening, int64, error) {
    where := []string{"s.status = 'SCHEDULED'"}
    args := []any{}

    if q.Title != "" {
        where = append(where, "LOWER(s.movie_title) LIKE ?")
        args = append(args, "%"+strings.ToLower(q.Title)+"%")
    }
    if q.Date != "" {
        where = append(where, "s.show_date = ?")
        args = append(args, q.Date)
    }

    cond := strings.Join(where, " AND ")

    var total int64
    countSQL := `SELECT COUNT(*) FROM screenings s WHERE ` + cond
    if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    if q.Page < 1 {
        q.Page = 1
    }
    if q.PageSize < 1 || q.PageSize > 100 {
        q.PageSize = 20
    }
    limit := q.PageSize
    offset := (q.Page - 1) * q.PageSize

    dataSQL := `SELECT s.id, s.movie_title, s.show_date, s.show_time, s.status, s.created_at
                FROM screenings s
                WHERE ` + cond + `
                ORDER BY s.show_date ASC, s.show_time ASC
                LIMIT ? OFFSET ?`
    rows, err := r.db.QueryContext(ctx, dataSQL, append(args, limit, offset)...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    result := make([]model.Screening, 0)
    for rows.Next() {
        var s model.Screening
        if err := rows.Scan(&s.ID, &s.MovieTitle, &s.ShowDate, &s.ShowTime, &s.Status, &s.CreatedAt); err != nil {
            return nil, 0, err
        }
        result = append(result, s)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return result, total, nil
}

// DeleteByID removes a screening and all of its dependent records.  The
// deletion occurs within a transaction to ensure that no partial
// cleanup occurs.  If the screening does not exist, ErrScreeningNotFound
// is returned.  If any bookings exist for the screening, the deletion
// is aborted and ErrConflict is returned.
func (r *ScreeningRepo) DeleteByID(ctx context.Context, id uint64) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        } else {
            _ = tx.Commit()
        }
    }()
    var exists int
    err = tx.QueryRowContext(ctx, `SELECT 1 FROM screenings WHERE id = ?`, id).Scan(&exists)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrScreeningNotFound
        }
        return err
    }
    // Check for existing bookings referencing this screening
    var bookingCount int
    if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE screening_id = ?`, id).Scan(&bookingCount); err != nil {
        return err
    }
    if bookingCount > 0 {
        return ErrConflict
    }
    if _, err = tx.ExecContext(ctx, `DELETE FROM seat_holds WHERE screening_id = ?`, id); err != nil {
        return err
    }
    if _, err = tx.ExecContext(ctx, `DELETE FROM screening_seats WHERE screening_id = ?`, id); err != nil {
        return err
    }
    if _, err = tx.ExecContext(ctx, `DELETE FROM screenings WHERE id = ?`, id); err != nil {
        return err
    }
    return nil
}
