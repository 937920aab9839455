// Package seatmap defines the fixed auditorium layout of the main
// hall and generates the per-screening seat inventory from it.  The
// layout is code-defined: eight rows A–H of varying width with the
// VIP tier in the middle rows and the love-box pairs at the back.
// Occupancy is never decided here, availability is owned by the
// screening_seats table, but the package can draw a random set of
// presold seats for demo seeding.
package seatmap

import (
    "math/rand"

    "github.com/cinemasahara/booking-service/internal/model"
)

// rowLabels and rowWidths describe the hall geometry.  Row i has
// rowWidths[i] seats numbered 1..rowWidths[i].
var rowLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H"}
var rowWidths = []int{8, 10, 10, 12, 12, 12, 10, 10}

// VIP tier occupies rows E and F.  The love-box tier is the centre
// four pairs of the back row (H2–H9); the aisle seats H1 and H10
// stay standard.
const (
    vipRowFirst = 4 // index of row E
    vipRowLast  = 5 // index of row F
    loveBoxRow  = 7 // index of row H
)

// DefaultPresoldProbability is the chance that a seat is marked
// presold when demo seeding is requested for a new screening.
const DefaultPresoldProbability = 0.25

// categoryFor returns the pricing tier for a position in the layout.
func categoryFor(rowIdx, seatNum int) model.SeatCategory {
    switch {
    case rowIdx >= vipRowFirst && rowIdx <= vipRowLast:
        return model.CategoryVIP
    case rowIdx == loveBoxRow && seatNum > 1 && seatNum < rowWidths[loveBoxRow]:
        return model.CategoryLoveBox
    default:
        return model.CategoryStandard
    }
}

// Rows returns the full layout grouped by row, front to back.  Every
// call builds a fresh slice so callers may mutate the result.
func Rows() [][]model.Seat {
    out := make([][]model.Seat, 0, len(rowLabels))
    for i, label := range rowLabels {
        row := make([]model.Seat, 0, rowWidths[i])
        for n := 1; n <= rowWidths[i]; n++ {
            cat := categoryFor(i, n)
            row = append(row, model.Seat{
                Label:      seatLabel(label, n),
                RowLabel:   label,
                SeatNumber: uint32(n),
                Category:   cat,
                Price:      cat.Price(),
            })
        }
        out = append(out, row)
    }
    return out
}

// Seats returns the layout flattened in row order.
func Seats() []model.Seat {
    var out []model.Seat
    for _, row := range Rows() {
        out = append(out, row...)
    }
    return out
}

// TotalSeats is the number of seats in the hall.
func TotalSeats() int {
    n := 0
    for _, w := range rowWidths {
        n += w
    }
    return n
}

// Find looks a seat up by its label.  The second return value is
// false when the label does not exist in the layout.
func Find(label string) (model.Seat, bool) {
    for _, s := range Seats() {
        if s.Label == label {
            return s, true
        }
    }
    return model.Seat{}, false
}

// PresoldLabels draws an independent Bernoulli sample per seat and
// returns the labels that came up presold.  It is used only to seed
// demo screenings with a plausible occupancy pattern; real occupancy
// comes from confirmed bookings.  The caller supplies the source so
// tests can pin the sequence.
func PresoldLabels(rng *rand.Rand, p float64) []string {
    if p <= 0 {
        return nil
    }
    var out []string
    for _, s := range Seats() {
        if p >= 1 || rng.Float64() < p {
            out = append(out, s.Label)
        }
    }
    return out
}

func seatLabel(row string, n int) string {
    // Seat numbers never exceed two digits, so avoid fmt.
    if n < 10 {
        return row + string(rune('0'+n))
    }
    return row + string(rune('0'+n/10)) + string(rune('0'+n%10))
}
