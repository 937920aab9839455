package handler

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinemasahara/booking-service/internal/repository"
)

// newBookingEnv wires a BookingHandler over a mocked sql.DB so the
// cancel transaction can be asserted statement by statement.
func newBookingEnv(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return NewBookingHandler(repository.NewBookingRepo(db), repository.NewScreeningSeatRepo(db)), mock
}

func doCancelBooking(t *testing.T, h *BookingHandler, bookingID string, userID uint64) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodDelete, "/v1/bookings/"+bookingID, nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetParamNames("id")
    c.SetParamValues(bookingID)
    c.Set("user_id", userID)
    require.NoError(t, h.CancelBooking(c))
    return rec
}

func TestCancelBookingFreesSeatsInOneTransaction(t *testing.T) {
    h, mock := newBookingEnv(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT user_id, screening_id, selected_seats FROM bookings").
        WillReturnRows(sqlmock.NewRows([]string{"user_id", "screening_id", "selected_seats"}).
            AddRow(42, 7, `["A1","E7"]`))
    mock.ExpectExec("UPDATE screening_seats").
        WillReturnResult(sqlmock.NewResult(0, 2))
    mock.ExpectExec("DELETE FROM bookings").
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    rec := doCancelBooking(t, h, "3", 42)

    assert.Equal(t, http.StatusNoContent, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingOfOtherUserRollsBack(t *testing.T) {
    h, mock := newBookingEnv(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT user_id, screening_id, selected_seats FROM bookings").
        WillReturnRows(sqlmock.NewRows([]string{"user_id", "screening_id", "selected_seats"}).
            AddRow(99, 7, `["A1"]`))
    mock.ExpectRollback()

    rec := doCancelBooking(t, h, "3", 42)

    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingNotFound(t *testing.T) {
    h, mock := newBookingEnv(t)

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT user_id, screening_id, selected_seats FROM bookings").
        WillReturnRows(sqlmock.NewRows([]string{"user_id", "screening_id", "selected_seats"}))
    mock.ExpectRollback()

    rec := doCancelBooking(t, h, "3", 42)

    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}
