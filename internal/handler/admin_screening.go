// This file defines handlers for administrative screening management:
// creating a screening (which materialises its seat inventory), listing
// its bookings, and deleting it.

package handler

import (
    "math/rand"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/cinemasahara/booking-service/internal/model"
    "github.com/cinemasahara/booking-service/internal/repository"
    "github.com/cinemasahara/booking-service/internal/seatmap"
)

// AdminHandler bundles repositories for admins to manage screenings.
// Transactions spanning screenings and their seats start from the
// screening repository's DB handle.
type AdminHandler struct {
    Screenings *repository.ScreeningRepo
    Seats      *repository.ScreeningSeatRepo
    Bookings   *repository.BookingRepo
}

// NewAdminHandler constructs a new AdminHandler and panics if any dependency is nil
func NewAdminHandler(screenings *repository.ScreeningRepo, seats *repository.ScreeningSeatRepo, bookings *repository.BookingRepo) *AdminHandler {
    if screenings == nil || seats == nil || bookings == nil {
        panic("nil dependency passed to NewAdminHandler")
    }
    return &AdminHandler{Screenings: screenings, Seats: seats, Bookings: bookings}
}

type createScreeningReq struct {
    MovieTitle  string `json:"movie_title"`
    ShowDate    string `json:"show_date"` // "2006-01-02"
    ShowTime    string `json:"show_time"` // "15:04"
    SeedPresold bool   `json:"seed_presold"`
}

// CreateScreening creates a screening and materialises one
// screening_seats row per seat of the hall layout in the same
// transaction.  With seed_presold, a random quarter of the seats is
// created already RESERVED, which is how demo screenings are stocked.
func (h *AdminHandler) CreateScreening(c echo.Context) error {
    var req createScreeningReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.MovieTitle = strings.TrimSpace(req.MovieTitle)
    if req.MovieTitle == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_title required"})
    }
    if _, err := time.Parse("2006-01-02", req.ShowDate); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_date must be YYYY-MM-DD"})
    }
    if _, err := time.Parse("15:04", req.ShowTime); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_time must be HH:MM"})
    }

    ctx := c.Request().Context()
    tx, err := h.Screenings.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    scr := &model.Screening{
        MovieTitle: req.MovieTitle,
        ShowDate:   req.ShowDate,
        ShowTime:   req.ShowTime,
    }
    if err := h.Screenings.CreateTx(ctx, tx, scr); err != nil {
        _ = tx.Rollback()
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create screening failed"})
    }

    presold := map[string]struct{}{}
    if req.SeedPresold {
        rng := rand.New(rand.NewSource(time.Now().UnixNano()))
        for _, label := range seatmap.PresoldLabels(rng, seatmap.DefaultPresoldProbability) {
            presold[label] = struct{}{}
        }
    }
    rows := make([]model.ScreeningSeat, 0, seatmap.TotalSeats())
    for _, seat := range seatmap.Seats() {
        status := model.SeatFree
        if _, ok := presold[seat.Label]; ok {
            status = model.SeatReserved
        }
        rows = append(rows, model.ScreeningSeat{
            ScreeningID: scr.ID,
            SeatLabel:   seat.Label,
            RowLabel:    seat.RowLabel,
            SeatNumber:  seat.SeatNumber,
            Category:    seat.Category,
            Price:       seat.Price,
            Status:      status,
        })
    }
    if err := h.Seats.CreateBulkTx(ctx, tx, rows); err != nil {
        _ = tx.Rollback()
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create seats failed"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "screening": scr,
        "seats":     len(rows),
        "presold":   len(presold),
    })
}

// ListScreeningBookings returns all bookings for one screening, newest
// first.
func (h *AdminHandler) ListScreeningBookings(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    if _, err := h.Screenings.GetByID(ctx, id); err != nil {
        if err == repository.ErrScreeningNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    items, err := h.Bookings.ListByScreening(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteScreening removes a screening together with its seats and
// holds.  Screenings with bookings cannot be deleted.
func (h *AdminHandler) DeleteScreening(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Screenings.DeleteByID(c.Request().Context(), id); err != nil {
        switch err {
        case repository.ErrScreeningNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
        case repository.ErrConflict:
            return c.JSON(http.StatusConflict, echo.Map{"error": "screening has bookings"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
        }
    }
    return c.NoContent(http.StatusNoContent)
}
