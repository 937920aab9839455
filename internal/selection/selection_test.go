package selection

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinemasahara/booking-service/internal/model"
)

func seat(label string, price uint32) model.Seat {
    return model.Seat{Label: label, RowLabel: label[:1], Category: model.CategoryStandard, Price: price}
}

func TestToggleRoundTrip(t *testing.T) {
    tr := New([]model.Seat{seat("A1", 80), seat("A2", 80)}, nil)

    assert.True(t, tr.Toggle("A1"))
    assert.True(t, tr.IsSelected("A1"))
    assert.Equal(t, []string{"A1"}, tr.Labels())

    // Second toggle restores the prior state.
    assert.False(t, tr.Toggle("A1"))
    assert.False(t, tr.IsSelected("A1"))
    assert.Empty(t, tr.Labels())
    assert.Zero(t, tr.Subtotal())
}

func TestToggleOccupiedIsNoOp(t *testing.T) {
    tr := New([]model.Seat{seat("A1", 80), seat("A2", 80)}, []string{"A2"})

    assert.False(t, tr.Toggle("A2"))
    assert.Empty(t, tr.Labels())
    assert.True(t, tr.IsOccupied("A2"))

    // Repeated attempts stay silent no matter the surrounding state.
    tr.Toggle("A1")
    assert.False(t, tr.Toggle("A2"))
    assert.Equal(t, []string{"A1"}, tr.Labels())
}

func TestToggleUnknownLabel(t *testing.T) {
    tr := New([]model.Seat{seat("A1", 80)}, nil)
    assert.False(t, tr.Toggle("Z9"))
    assert.Empty(t, tr.Labels())
}

func TestTotalsSingleRowScenario(t *testing.T) {
    // One row of 4 seats, no occupancy, uniform price 80.
    seats := []model.Seat{seat("A1", 80), seat("A2", 80), seat("A3", 80), seat("A4", 80)}
    tr := New(seats, nil)
    for _, s := range seats {
        require.True(t, tr.Toggle(s.Label))
    }

    assert.Equal(t, uint32(320), tr.Subtotal())
    assert.Equal(t, uint32(16), ServiceFee(320))
    assert.Equal(t, uint32(336), tr.GrandTotal())
}

func TestServiceFeeRoundsHalfUp(t *testing.T) {
    // 230 * 0.05 = 11.5 which rounds up to 12.
    assert.Equal(t, uint32(12), ServiceFee(230))
    assert.Equal(t, uint32(0), ServiceFee(0))
    assert.Equal(t, uint32(4), ServiceFee(80))
    assert.Equal(t, uint32(10), ServiceFee(200))
}

func TestMixedPrices(t *testing.T) {
    tr := New([]model.Seat{seat("A1", 80), seat("E1", 150)}, nil)
    tr.Toggle("A1")
    tr.Toggle("E1")

    assert.Equal(t, uint32(230), tr.Subtotal())
    assert.Equal(t, uint32(242), tr.GrandTotal())
}

func TestSelectedKeepsLayoutOrder(t *testing.T) {
    tr := New([]model.Seat{seat("A1", 80), seat("A2", 80), seat("A3", 80)}, nil)
    tr.Toggle("A3")
    tr.Toggle("A1")
    assert.Equal(t, []string{"A1", "A3"}, tr.Labels())
}

func TestClear(t *testing.T) {
    tr := New([]model.Seat{seat("A1", 80)}, nil)
    tr.Toggle("A1")
    tr.Clear()
    assert.Zero(t, tr.Count())
    assert.Empty(t, tr.Labels())
}
