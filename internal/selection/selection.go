// Package selection tracks the set of seats a user intends to
// purchase during one checkout session.  It is pure in-memory state:
// nothing is persisted until the flow confirms, and the tracker is
// discarded on timeout, cancel or successful booking.
package selection

import (
    "github.com/cinemasahara/booking-service/internal/model"
)

// ServiceFeePercent is the fixed surcharge applied to the seat
// subtotal at checkout.
const ServiceFeePercent = 5

// ServiceFee returns the fee for a subtotal, rounded half-up to the
// nearest whole MAD.
func ServiceFee(subtotal uint32) uint32 {
    return (subtotal*ServiceFeePercent + 50) / 100
}

// Tracker holds the toggle set of chosen seats for a session.  Seats
// marked occupied at construction can never enter the set; toggling
// one is a silent no-op.  The tracker is not safe for concurrent use;
// the checkout session serialises access to it.
type Tracker struct {
    seats    []model.Seat             // layout order, for deterministic output
    byLabel  map[string]int           // label -> index into seats
    occupied map[string]struct{}      // labels that cannot be selected
    chosen   map[string]struct{}      // current selection
}

// New builds a tracker over the given seats.  occupied lists the
// labels that are unavailable for this session (reserved, held by
// others, or presold).
func New(seats []model.Seat, occupied []string) *Tracker {
    t := &Tracker{
        seats:    seats,
        byLabel:  make(map[string]int, len(seats)),
        occupied: make(map[string]struct{}, len(occupied)),
        chosen:   make(map[string]struct{}),
    }
    for i, s := range seats {
        t.byLabel[s.Label] = i
    }
    for _, l := range occupied {
        t.occupied[l] = struct{}{}
    }
    return t
}

// Toggle flips the membership of a seat in the selection.  Unknown
// labels and occupied seats are ignored.  It returns true when the
// seat is selected after the call.
func (t *Tracker) Toggle(label string) bool {
    if _, ok := t.byLabel[label]; !ok {
        return false
    }
    if _, ok := t.occupied[label]; ok {
        return false
    }
    if _, ok := t.chosen[label]; ok {
        delete(t.chosen, label)
        return false
    }
    t.chosen[label] = struct{}{}
    return true
}

// IsOccupied reports whether a seat is unavailable in this session.
func (t *Tracker) IsOccupied(label string) bool {
    _, ok := t.occupied[label]
    return ok
}

// IsSelected reports whether a seat is currently in the selection.
func (t *Tracker) IsSelected(label string) bool {
    _, ok := t.chosen[label]
    return ok
}

// Selected returns the chosen seats in layout order.
func (t *Tracker) Selected() []model.Seat {
    out := make([]model.Seat, 0, len(t.chosen))
    for _, s := range t.seats {
        if _, ok := t.chosen[s.Label]; ok {
            out = append(out, s)
        }
    }
    return out
}

// Labels returns the chosen seat labels in layout order.
func (t *Tracker) Labels() []string {
    sel := t.Selected()
    out := make([]string, 0, len(sel))
    for _, s := range sel {
        out = append(out, s.Label)
    }
    return out
}

// Count returns the number of chosen seats.
func (t *Tracker) Count() int { return len(t.chosen) }

// Subtotal returns the sum of per-seat prices over the selection.
func (t *Tracker) Subtotal() uint32 {
    var sum uint32
    for _, s := range t.Selected() {
        sum += s.Price
    }
    return sum
}

// GrandTotal returns the subtotal plus the service fee.
func (t *Tracker) GrandTotal() uint32 {
    sub := t.Subtotal()
    return sub + ServiceFee(sub)
}

// Clear empties the selection.
func (t *Tracker) Clear() {
    t.chosen = make(map[string]struct{})
}
