// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes allow
// unauthenticated users to browse screenings and seat availability without
// requiring authentication.

package handler

import (
    "database/sql"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/cinemasahara/booking-service/internal/model"
    "github.com/cinemasahara/booking-service/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
type PublicHandler struct {
    DB         *sql.DB
    Screenings *repository.ScreeningRepo
    Seats      *repository.ScreeningSeatRepo
    Holds      *repository.SeatHoldRepo
}

// NewPublicHandler constructs a PublicHandler over the shared repositories.
func NewPublicHandler(db *sql.DB, screenings *repository.ScreeningRepo, seats *repository.ScreeningSeatRepo, holds *repository.SeatHoldRepo) *PublicHandler {
    return &PublicHandler{DB: db, Screenings: screenings, Seats: seats, Holds: holds}
}

// ListScreenings returns scheduled screenings for guests.  Supports
// ?q= title substring, ?date= exact date, and page/page_size
// pagination.  Response JSON contains an "items" array plus paging
// metadata.
func (h *PublicHandler) ListScreenings(c echo.Context) error {
    ctx := c.Request().Context()
    page, _ := strconv.Atoi(c.QueryParam("page"))
    size, _ := strconv.Atoi(c.QueryParam("page_size"))
    q := repository.ScreeningSearchQuery{
        Title:    c.QueryParam("q"),
        Date:     c.QueryParam("date"),
        Page:     page,
        PageSize: size,
    }
    items, total, err := h.Screenings.Search(ctx, q)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items": items,
        "total": total,
    })
}

// GetScreening returns a single screening by ID.
func (h *PublicHandler) GetScreening(c echo.Context) error {
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
    return c.JSON(http.StatusOK, scr)
}

// seatRow groups a screening's seats by row for grid rendering.
type seatRow struct {
    Row   string                `json:"row"`
    Seats []model.ScreeningSeat `json:"seats"`
}

// GetScreeningSeats returns the seat grid for a screening.  Expired
// holds are released first so guests never see stale HELD seats.
// Status values can be FREE, HELD or RESERVED.
func (h *PublicHandler) GetScreeningSeats(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if _, err := h.Screenings.GetByID(ctx, id); err != nil {
        if err == repository.ErrScreeningNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "screening not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := releaseExpiredHolds(ctx, h.DB, h.Holds, h.Seats, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    seats, err := h.Seats.ListByScreening(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    rows := make([]seatRow, 0)
    for _, s := range seats {
        if len(rows) == 0 || rows[len(rows)-1].Row != s.RowLabel {
            rows = append(rows, seatRow{Row: s.RowLabel, Seats: []model.ScreeningSeat{}})
        }
        rows[len(rows)-1].Seats = append(rows[len(rows)-1].Seats, s)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "screening_id": id,
        "rows":         rows,
    })
}
