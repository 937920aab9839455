package model

// SeatCategory is the pricing/amenity tier assigned to a seat.  The
// auditorium has three tiers: standard seating, the VIP middle rows
// and the love-box pairs at the back.  Prices are fixed per tier.
type SeatCategory string

const (
    CategoryStandard SeatCategory = "STANDARD"
    CategoryVIP      SeatCategory = "VIP"
    CategoryLoveBox  SeatCategory = "LOVE_BOX"
)

// Seat prices in MAD (whole units, not cents).  The price of a seat
// is a pure function of its category.
const (
    PriceStandard uint32 = 80
    PriceVIP      uint32 = 120
    PriceLoveBox  uint32 = 200
)

// Price returns the ticket price for a category.  Unknown categories
// fall back to the standard price.
func (c SeatCategory) Price() uint32 {
    switch c {
    case CategoryVIP:
        return PriceVIP
    case CategoryLoveBox:
        return PriceLoveBox
    default:
        return PriceStandard
    }
}

// Valid reports whether c is one of the three known tiers.
func (c SeatCategory) Valid() bool {
    return c == CategoryStandard || c == CategoryVIP || c == CategoryLoveBox
}

// Seat describes one seat in the auditorium layout.  Label is the
// row letter followed by the 1-based seat number (e.g. "E7") and is
// the identifier used throughout the checkout flow and in persisted
// bookings.
//
// Fields:
//  Label      – row letter + seat number, e.g. "A1", "H12".
//  RowLabel   – the row letter (A–H).
//  SeatNumber – 1-based position within the row.
//  Category   – pricing tier (STANDARD, VIP, LOVE_BOX).
//  Price      – ticket price in MAD, derived from Category.
type Seat struct {
    Label      string       `json:"label"`
    RowLabel   string       `json:"row"`
    SeatNumber uint32       `json:"number"`
    Category   SeatCategory `json:"category"`
    Price      uint32       `json:"price"`
}
