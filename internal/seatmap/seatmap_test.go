package seatmap

import (
    "math/rand"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinemasahara/booking-service/internal/model"
)

func TestRowsShape(t *testing.T) {
    rows := Rows()
    require.Len(t, rows, 8)

    widths := []int{8, 10, 10, 12, 12, 12, 10, 10}
    labels := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
    for i, row := range rows {
        assert.Len(t, row, widths[i], "row %s", labels[i])
        for n, seat := range row {
            assert.Equal(t, labels[i], seat.RowLabel)
            assert.Equal(t, uint32(n+1), seat.SeatNumber)
        }
    }
    assert.Equal(t, 84, TotalSeats())
}

func TestCategoriesAndPrices(t *testing.T) {
    for _, s := range Seats() {
        require.True(t, s.Category.Valid(), "seat %s has unknown category %s", s.Label, s.Category)
        assert.Equal(t, s.Category.Price(), s.Price, "seat %s", s.Label)
    }

    // VIP tier is exactly rows E and F.
    for _, s := range Seats() {
        isVIPRow := s.RowLabel == "E" || s.RowLabel == "F"
        assert.Equal(t, isVIPRow, s.Category == model.CategoryVIP, "seat %s", s.Label)
    }

    // Love boxes are H2..H9; the aisle seats stay standard.
    for _, s := range Seats() {
        if s.RowLabel != "H" {
            continue
        }
        if s.SeatNumber == 1 || s.SeatNumber == 10 {
            assert.Equal(t, model.CategoryStandard, s.Category, "seat %s", s.Label)
        } else {
            assert.Equal(t, model.CategoryLoveBox, s.Category, "seat %s", s.Label)
        }
    }
}

func TestFind(t *testing.T) {
    s, ok := Find("E7")
    require.True(t, ok)
    assert.Equal(t, model.CategoryVIP, s.Category)
    assert.Equal(t, uint32(120), s.Price)

    s, ok = Find("H12")
    require.False(t, ok, "row H only has 10 seats, got %+v", s)

    _, ok = Find("Z1")
    assert.False(t, ok)
}

func TestSeatLabels(t *testing.T) {
    s, ok := Find("D12")
    require.True(t, ok)
    assert.Equal(t, "D", s.RowLabel)
    assert.Equal(t, uint32(12), s.SeatNumber)
}

func TestPresoldLabels(t *testing.T) {
    rng := rand.New(rand.NewSource(1))

    assert.Nil(t, PresoldLabels(rng, 0))

    all := PresoldLabels(rng, 1)
    assert.Len(t, all, TotalSeats())

    // With a pinned source the draw is reproducible and strictly
    // between the extremes for the default probability.
    rng = rand.New(rand.NewSource(42))
    some := PresoldLabels(rng, DefaultPresoldProbability)
    assert.Greater(t, len(some), 0)
    assert.Less(t, len(some), TotalSeats())

    rng = rand.New(rand.NewSource(42))
    again := PresoldLabels(rng, DefaultPresoldProbability)
    assert.Equal(t, some, again)
}
