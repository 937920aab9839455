// This file defines handlers for viewing and cancelling confirmed
// bookings.  All routes require an authenticated customer.

package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/cinemasahara/booking-service/internal/model"
    "github.com/cinemasahara/booking-service/internal/repository"
    "github.com/cinemasahara/booking-service/internal/ticket"
)

// BookingHandler exposes the customer's own bookings.
type BookingHandler struct {
    Bookings *repository.BookingRepo
    Seats    *repository.ScreeningSeatRepo
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(bookings *repository.BookingRepo, seats *repository.ScreeningSeatRepo) *BookingHandler {
    return &BookingHandler{Bookings: bookings, Seats: seats}
}

// bookingView decorates a booking with its ticket payload.
func bookingView(b *model.Booking) echo.Map {
    qr, err := ticket.Encode(ticket.Payload{
        Confirmation: b.BookingCode,
        Movie:        b.MovieTitle,
        Date:         b.ShowDate,
        Time:         b.ShowTime,
        Seats:        b.SelectedSeats,
    })
    if err != nil {
        qr = ""
    }
    return echo.Map{"booking": b, "qr": qr}
}

// MyBookings lists the caller's bookings, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking returns one of the caller's bookings with its ticket
// payload.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    b, err := h.Bookings.GetByIDForUser(c.Request().Context(), id, userID)
    if err != nil {
        if err == repository.ErrBookingNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, bookingView(b))
}

// CancelBooking deletes one of the caller's bookings and frees its
// seats in a single transaction.  Only the seat labels survive on the
// booking record, so the release goes by label against the booking's
// screening.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    tx, err := h.Bookings.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    screeningID, labels, err := h.Bookings.GetForDeleteTx(ctx, tx, id, userID)
    if err != nil {
        _ = tx.Rollback()
        switch err {
        case repository.ErrBookingNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        case repository.ErrForbidden:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }
    if err := h.Seats.FreeByLabelsTx(ctx, tx, screeningID, labels); err != nil {
        _ = tx.Rollback()
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := h.Bookings.DeleteTx(ctx, tx, id); err != nil {
        _ = tx.Rollback()
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.NoContent(http.StatusNoContent)
}
