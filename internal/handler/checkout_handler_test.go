package handler

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinemasahara/booking-service/internal/checkout"
    "github.com/cinemasahara/booking-service/internal/model"
)

// newCheckoutHandler wires a handler around an in-memory manager only.
// The flows exercised here never reach the database.
func newCheckoutHandler(ttl time.Duration) (*CheckoutHandler, *checkout.Manager) {
    m := checkout.NewManager(ttl)
    return &CheckoutHandler{Manager: m}, m
}

func newTestSession(m *checkout.Manager, occupied ...string) *checkout.Session {
    scr := &model.Screening{
        ID:         7,
        MovieTitle: "Indiana Jones 5",
        ShowDate:   "2026-09-12",
        ShowTime:   "20:30",
        Status:     model.ScreeningScheduled,
    }
    seats := []model.Seat{
        {Label: "A1", RowLabel: "A", SeatNumber: 1, Category: model.CategoryStandard, Price: model.PriceStandard},
        {Label: "A2", RowLabel: "A", SeatNumber: 2, Category: model.CategoryStandard, Price: model.PriceStandard},
        {Label: "E1", RowLabel: "E", SeatNumber: 1, Category: model.CategoryVIP, Price: model.PriceVIP},
    }
    return m.Create(scr, seats, occupied, 42)
}

// doCheckout runs one handler method against a fresh echo context and
// returns the recorder.
func doCheckout(t *testing.T, fn echo.HandlerFunc, method, target string, params map[string]string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(method, target, nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    names := make([]string, 0, len(params))
    values := make([]string, 0, len(params))
    for k, v := range params {
        names = append(names, k)
        values = append(values, v)
    }
    c.SetParamNames(names...)
    c.SetParamValues(values...)
    require.NoError(t, fn(c))
    return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) checkout.Snapshot {
    t.Helper()
    var snap checkout.Snapshot
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
    return snap
}

func TestCheckoutGetUnknownSession(t *testing.T) {
    h, _ := newCheckoutHandler(10 * time.Minute)

    rec := doCheckout(t, h.Get, http.MethodGet, "/v1/checkout/nope", map[string]string{"sid": "nope"})

    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutToggleOverHTTP(t *testing.T) {
    h, m := newCheckoutHandler(10 * time.Minute)
    sess := newTestSession(m, "A2")

    rec := doCheckout(t, h.ToggleSeat, http.MethodPost, "/v1/checkout/"+sess.ID+"/seats/A1",
        map[string]string{"sid": sess.ID, "label": "A1"})
    require.Equal(t, http.StatusOK, rec.Code)

    rec = doCheckout(t, h.ToggleSeat, http.MethodPost, "/v1/checkout/"+sess.ID+"/seats/E1",
        map[string]string{"sid": sess.ID, "label": "E1"})
    require.Equal(t, http.StatusOK, rec.Code)

    snap := decodeSnapshot(t, rec)
    assert.Equal(t, []string{"A1", "E1"}, snap.SeatLabels())
    assert.Equal(t, uint32(200), snap.Subtotal)
    assert.Equal(t, uint32(10), snap.ServiceFee)
    assert.Equal(t, uint32(210), snap.Total)

    // Occupied seats are ignored without an error.
    rec = doCheckout(t, h.ToggleSeat, http.MethodPost, "/v1/checkout/"+sess.ID+"/seats/A2",
        map[string]string{"sid": sess.ID, "label": "A2"})
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, []string{"A1", "E1"}, decodeSnapshot(t, rec).SeatLabels())
}

func TestCheckoutExpiredSessionGone(t *testing.T) {
    h, m := newCheckoutHandler(-time.Second)
    sess := newTestSession(m)

    rec := doCheckout(t, h.Get, http.MethodGet, "/v1/checkout/"+sess.ID, map[string]string{"sid": sess.ID})

    assert.Equal(t, http.StatusGone, rec.Code)
    snap := decodeSnapshot(t, rec)
    assert.Equal(t, checkout.StateExpired, snap.State)
    assert.Empty(t, snap.Seats)
    assert.Zero(t, snap.RemainingSeconds)
}

func TestCheckoutStartWithoutUser(t *testing.T) {
    h, _ := newCheckoutHandler(10 * time.Minute)

    rec := doCheckout(t, h.Start, http.MethodPost, "/v1/screenings/7/checkout", map[string]string{"id": "7"})

    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutReviewWithoutSeats(t *testing.T) {
    h, m := newCheckoutHandler(10 * time.Minute)
    sess := newTestSession(m)

    rec := doCheckout(t, h.Review, http.MethodPost, "/v1/checkout/"+sess.ID+"/review",
        map[string]string{"sid": sess.ID})

    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutCancelRemovesSession(t *testing.T) {
    h, m := newCheckoutHandler(10 * time.Minute)
    scr := &model.Screening{ID: 7, MovieTitle: "Indiana Jones 5", ShowDate: "2026-09-12", ShowTime: "20:30", Status: model.ScreeningScheduled}
    seats := []model.Seat{{Label: "A1", RowLabel: "A", SeatNumber: 1, Category: model.CategoryStandard, Price: model.PriceStandard}}
    sess := m.Create(scr, seats, nil, 0)

    rec := doCheckout(t, h.Cancel, http.MethodDelete, "/v1/checkout/"+sess.ID, map[string]string{"sid": sess.ID})
    require.Equal(t, http.StatusNoContent, rec.Code)

    // The session is gone, not merely closed.
    rec = doCheckout(t, h.Get, http.MethodGet, "/v1/checkout/"+sess.ID, map[string]string{"sid": sess.ID})
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutBackOutsideReview(t *testing.T) {
    h, m := newCheckoutHandler(10 * time.Minute)
    sess := newTestSession(m)

    rec := doCheckout(t, h.Back, http.MethodPost, "/v1/checkout/"+sess.ID+"/back",
        map[string]string{"sid": sess.ID})

    assert.Equal(t, http.StatusConflict, rec.Code)
}
