package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "strings"

    "github.com/cinemasahara/booking-service/internal/model"
)

// ErrBookingNotFound indicates that a booking was not located in the DB.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDuplicateCode indicates the generated booking code collided with an
// existing one.  Callers should generate a fresh code and retry the
// insert within the same transaction.
var ErrDuplicateCode = errors.New("duplicate booking code")

// BookingRepo provides CRUD operations for bookings.  A booking is the
// denormalized record produced by a confirmed checkout: it carries the
// movie title, date and time as display strings and the seat labels as
// a JSON array, so the record stays readable even if the screening is
// later removed.  All timestamp fields are assumed to be stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning multiple repositories.
func (r *BookingRepo) DB() *sql.DB {
    return r.db
}

// CreateTx inserts a new booking within the scope of an existing
// transaction.  It populates the generated ID and created_at on the
// provided record.  The bookings.booking_code column carries a unique
// index; when the insert trips it, ErrDuplicateCode is returned so the
// caller can retry with a fresh code.  The caller must commit or roll
// back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    seatsJSON, err := json.Marshal(b.SelectedSeats)
    if err != nil {
        return err
    }
    const q = `INSERT INTO bookings (user_id, screening_id, movie_title, show_date, show_time, selected_seats, total_price, booking_code)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, b.UserID, b.ScreeningID, b.MovieTitle, b.ShowDate, b.ShowTime, string(seatsJSON), b.TotalPrice, b.BookingCode)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrDuplicateCode
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    // Query back the created_at default assigned by the database.
    const sel = `SELECT created_at FROM bookings WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt)
}

// scanBooking reads one bookings row including the JSON seat list.
func scanBooking(scan func(dest ...any) error) (*model.Booking, error) {
    var b model.Booking
    var seatsJSON string
    if err := scan(&b.ID, &b.UserID, &b.ScreeningID, &b.MovieTitle, &b.ShowDate, &b.ShowTime, &seatsJSON, &b.TotalPrice, &b.BookingCode, &b.CreatedAt); err != nil {
        return nil, err
    }
    if err := json.Unmarshal([]byte(seatsJSON), &b.SelectedSeats); err != nil {
        return nil, err
    }
    return &b, nil
}

const bookingColumns = `id, user_id, screening_id, movie_title, show_date, show_time, selected_seats, total_price, booking_code, created_at`

// GetByIDForUser returns a single booking for the given user.  It
// restricts the lookup to the calling user to enforce ownership; when
// no booking with the specified ID exists for the user,
// ErrBookingNotFound is returned.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? AND user_id = ?`
    b, err := scanBooking(r.db.QueryRowContext(ctx, q, bookingID, userID).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    return b, nil
}

// ListByUser returns all bookings for the given user ordered by
// creation time descending (newest first).  When no bookings exist, an
// empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows.Scan)
        if err != nil {
            return nil, err
        }
        result = append(result, *b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// ListByScreening returns all bookings for a given screening ordered by
// creation time descending.  It backs the admin view of who booked a
// showing.
func (r *BookingRepo) ListByScreening(ctx context.Context, screeningID uint64) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE screening_id = ? ORDER BY created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, screeningID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    result := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows.Scan)
        if err != nil {
            return nil, err
        }
        result = append(result, *b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return result, nil
}

// GetForDeleteTx locks one bookings row and returns the fields needed
// to cancel it: the owner, the screening and the seat labels stored on
// the record.  It returns ErrBookingNotFound when the booking does not
// exist and ErrForbidden when it belongs to a different user.  Callers
// free the seats and delete the row within the same transaction.
func (r *BookingRepo) GetForDeleteTx(ctx context.Context, tx *sql.Tx, bookingID, userID uint64) (screeningID uint64, labels []string, err error) {
    var ownerID uint64
    var seatsJSON string
    err = tx.QueryRowContext(ctx,
        `SELECT user_id, screening_id, selected_seats FROM bookings WHERE id = ? FOR UPDATE`, bookingID,
    ).Scan(&ownerID, &screeningID, &seatsJSON)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return 0, nil, ErrBookingNotFound
        }
        return 0, nil, err
    }
    if ownerID != userID {
        return 0, nil, ErrForbidden
    }
    if err = json.Unmarshal([]byte(seatsJSON), &labels); err != nil {
        return 0, nil, err
    }
    return screeningID, labels, nil
}

// DeleteTx removes a bookings row within the given transaction.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
    _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, bookingID)
    return err
}
