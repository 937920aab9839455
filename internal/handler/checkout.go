// This file defines handlers for the checkout flow: opening a session
// against a screening, toggling seats, moving between selection and
// review, confirming into a booking, and cancelling.

package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/cinemasahara/booking-service/internal/checkout"
    "github.com/cinemasahara/booking-service/internal/model"
    "github.com/cinemasahara/booking-service/internal/repository"
    "github.com/cinemasahara/booking-service/internal/ticket"
)

// CheckoutHandler bundles the session manager, the confirmation
// gateway and the repositories the flow reads from.
type CheckoutHandler struct {
    DB         *sql.DB
    Manager    *checkout.Manager
    Gateway    *checkout.Gateway
    Screenings *repository.ScreeningRepo
    Seats      *repository.ScreeningSeatRepo
    Holds      *repository.SeatHoldRepo
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(db *sql.DB, m *checkout.Manager, g *checkout.Gateway, screenings *repository.ScreeningRepo, seats *repository.ScreeningSeatRepo, holds *repository.SeatHoldRepo) *CheckoutHandler {
    return &CheckoutHandler{DB: db, Manager: m, Gateway: g, Screenings: screenings, Seats: seats, Holds: holds}
}

// Start opens a checkout session for a screening.  The seat grid is
// loaded after releasing expired holds; every seat not FREE at that
// moment is occupied for the whole session.
func (h *CheckoutHandler) Start(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx := c.Request().Context()
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    scr, err := h.Screenings.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrScreeningNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if scr.Status != model.ScreeningScheduled {
        return c.JSON(http.StatusConflict, echo.Map{"error": "screening is not open for booking"})
    }
    if err := releaseExpiredHolds(ctx, h.DB, h.Holds, h.Seats, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    grid, err := h.Seats.ListByScreening(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    seats := make([]model.Seat, 0, len(grid))
    occupied := make([]string, 0)
    for _, ss := range grid {
        seats = append(seats, model.Seat{
            Label:      ss.SeatLabel,
            RowLabel:   ss.RowLabel,
            SeatNumber: ss.SeatNumber,
            Category:   ss.Category,
            Price:      ss.Price,
        })
        if ss.Status != model.SeatFree {
            occupied = append(occupied, ss.SeatLabel)
        }
    }
    sess := h.Manager.Create(scr, seats, occupied, userID)
    return c.JSON(http.StatusCreated, sess.Snapshot(h.Manager.Now()))
}

// respond renders a session, using 410 when the countdown has run out.
func (h *CheckoutHandler) respond(c echo.Context, sess *checkout.Session) error {
    snap := sess.Snapshot(h.Manager.Now())
    if snap.State == checkout.StateExpired {
        return c.JSON(http.StatusGone, snap)
    }
    return c.JSON(http.StatusOK, snap)
}

// Get returns the current session snapshot.
func (h *CheckoutHandler) Get(c echo.Context) error {
    sess, err := h.Manager.Get(c.Param("sid"))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "checkout session not found"})
    }
    return h.respond(c, sess)
}

// ToggleSeat flips one seat in the selection.  Occupied and unknown
// labels leave the selection unchanged without an error; the snapshot
// tells the client what actually happened.
func (h *CheckoutHandler) ToggleSeat(c echo.Context) error {
    sess, err := h.Manager.Get(c.Param("sid"))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "checkout session not found"})
    }
    if _, err := sess.ToggleSeat(h.Manager.Now(), c.Param("label")); err != nil {
        return h.checkoutError(c, sess, err)
    }
    return h.respond(c, sess)
}

// Review moves the session to the review step.  The selected seats are
// written to the database as time-boxed holds sharing the session
// deadline, so other sessions see them as HELD.  When another user got
// a seat first the response is 409 with the conflicting labels and the
// session stays in seat selection.
func (h *CheckoutHandler) Review(c echo.Context) error {
    sess, err := h.Manager.Get(c.Param("sid"))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "checkout session not found"})
    }
    now := h.Manager.Now()
    switch sess.State(now) {
    case checkout.StateSeatSelection:
    case checkout.StateExpired:
        return h.checkoutError(c, sess, checkout.ErrSessionExpired)
    default:
        return h.checkoutError(c, sess, checkout.ErrWrongState)
    }
    selected := sess.SelectedSeats()
    if len(selected) == 0 {
        return h.checkoutError(c, sess, checkout.ErrNoSeats)
    }
    labels := make([]string, 0, len(selected))
    for _, s := range selected {
        labels = append(labels, s.Label)
    }

    conflicts, err := h.placeHolds(c, sess, labels)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if len(conflicts) > 0 {
        return c.JSON(http.StatusConflict, echo.Map{
            "error":     "one or more seats are no longer available",
            "conflicts": conflicts,
        })
    }

    if err := sess.Review(now); err != nil {
        return h.checkoutError(c, sess, err)
    }
    return h.respond(c, sess)
}

// placeHolds reserves time-boxed holds for the session's seat labels
// in a single transaction.  It returns the labels that could not be
// held because another session owns them.
func (h *CheckoutHandler) placeHolds(c echo.Context, sess *checkout.Session, labels []string) ([]string, error) {
    ctx := c.Request().Context()
    tx, err := h.DB.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        }
    }()

    expired, err := h.Holds.ExpireHoldsTx(ctx, tx, sess.ScreeningID)
    if err != nil {
        return nil, err
    }
    if err = h.Seats.BulkUpdateStatusTx(ctx, tx, sess.ScreeningID, expired, model.SeatFree); err != nil {
        return nil, err
    }
    // Re-holding is idempotent: drop this user's previous holds first.
    released, err := h.Holds.DeleteByUserAndScreeningTx(ctx, tx, sess.UserID, sess.ScreeningID)
    if err != nil {
        return nil, err
    }
    if err = h.Seats.BulkUpdateStatusTx(ctx, tx, sess.ScreeningID, released, model.SeatFree); err != nil {
        return nil, err
    }

    free, err := h.Seats.FilterFreeByLabelsTx(ctx, tx, sess.ScreeningID, labels)
    if err != nil {
        return nil, err
    }
    if len(free) != len(labels) {
        held := make(map[string]struct{}, len(free))
        for _, s := range free {
            held[s.SeatLabel] = struct{}{}
        }
        conflicts := make([]string, 0)
        for _, l := range labels {
            if _, ok := held[l]; !ok {
                conflicts = append(conflicts, l)
            }
        }
        _ = tx.Rollback()
        return conflicts, nil
    }

    seatIDs := make([]uint64, 0, len(free))
    for _, s := range free {
        seatIDs = append(seatIDs, s.ID)
    }
    if err = h.Seats.BulkUpdateStatusTx(ctx, tx, sess.ScreeningID, seatIDs, model.SeatHeld); err != nil {
        return nil, err
    }
    holds, err := repository.GenerateHoldRecords(sess.UserID, sess.ScreeningID, seatIDs, sess.Deadline())
    if err != nil {
        return nil, err
    }
    if err = h.Holds.CreateMultipleTx(ctx, tx, holds); err != nil {
        return nil, err
    }
    if err = tx.Commit(); err != nil {
        return nil, err
    }
    return nil, nil
}

// Back returns from review to seat selection keeping the selection.
func (h *CheckoutHandler) Back(c echo.Context) error {
    sess, err := h.Manager.Get(c.Param("sid"))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "checkout session not found"})
    }
    if err := sess.Back(h.Manager.Now()); err != nil {
        return h.checkoutError(c, sess, err)
    }
    return h.respond(c, sess)
}

// Confirm finalises the session into a booking for the authenticated
// user.  The response carries the booking plus the encoded ticket
// payload clients render as a QR code.
func (h *CheckoutHandler) Confirm(c echo.Context) error {
    sess, err := h.Manager.Get(c.Param("sid"))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "checkout session not found"})
    }
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    b, err := h.Gateway.Confirm(c.Request().Context(), sess, userID, h.Manager.Now())
    if err != nil {
        return h.checkoutError(c, sess, err)
    }
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
    return c.JSON(http.StatusCreated, echo.Map{
        "booking": b,
        "qr":      qr,
        "session": sess.Snapshot(h.Manager.Now()),
    })
}

// Cancel closes an active session and drops it from the store.
// Expired and completed sessions linger until the sweeper collects
// them, but an explicit cancel has nothing left to observe.
// Cancelling a terminal session is a no-op; either way the response
// is 204.
func (h *CheckoutHandler) Cancel(c echo.Context) error {
    sess, err := h.Manager.Get(c.Param("sid"))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "checkout session not found"})
    }
    sess.Close(h.Manager.Now())
    if sess.UserID != 0 {
        if err := h.releaseHolds(c, sess); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }
    h.Manager.Remove(sess.ID)
    return c.NoContent(http.StatusNoContent)
}

// releaseHolds drops the session user's holds for the screening and
// frees the seats behind them.
func (h *CheckoutHandler) releaseHolds(c echo.Context, sess *checkout.Session) error {
    ctx := c.Request().Context()
    tx, err := h.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    released, err := h.Holds.DeleteByUserAndScreeningTx(ctx, tx, sess.UserID, sess.ScreeningID)
    if err != nil {
        _ = tx.Rollback()
        return err
    }
    if err := h.Seats.BulkUpdateStatusTx(ctx, tx, sess.ScreeningID, released, model.SeatFree); err != nil {
        _ = tx.Rollback()
        return err
    }
    return tx.Commit()
}

// checkoutError maps checkout sentinels onto HTTP responses.
func (h *CheckoutHandler) checkoutError(c echo.Context, sess *checkout.Session, err error) error {
    switch {
    case errors.Is(err, checkout.ErrSessionExpired):
        return c.JSON(http.StatusGone, sess.Snapshot(h.Manager.Now()))
    case errors.Is(err, checkout.ErrUnauthenticated):
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    case errors.Is(err, checkout.ErrNoSeats):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "select at least one seat"})
    case errors.Is(err, checkout.ErrSeatConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "one or more seats are no longer available"})
    case errors.Is(err, checkout.ErrWrongState):
        return c.JSON(http.StatusConflict, echo.Map{"error": "operation not valid in current state"})
    case errors.Is(err, checkout.ErrPersistence):
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "booking could not be saved, please retry"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}
