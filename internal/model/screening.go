package model

import "time"

// Screening represents a scheduled showing of a movie at the cinema.
// Date and time are kept as display strings because that is how the
// site presents showtimes and how bookings reference them; the rows
// are not joined against a normalized calendar.
//
// Fields:
//  ID         – primary key identifier.
//  MovieTitle – title of the movie being shown.
//  ShowDate   – display date, "2006-01-02".
//  ShowTime   – display time, "15:04".
//  Status     – SCHEDULED, CANCELLED or FINISHED.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Screening struct {
    ID         uint64    `json:"id"`          // screenings.id
    MovieTitle string    `json:"movie_title"` // screenings.movie_title
    ShowDate   string    `json:"show_date"`   // screenings.show_date
    ShowTime   string    `json:"show_time"`   // screenings.show_time
    Status     string    `json:"status"`      // screenings.status
    CreatedAt  time.Time `json:"-"`           // screenings.created_at
    UpdatedAt  time.Time `json:"-"`           // screenings.updated_at
}

// Screening statuses.
const (
    ScreeningScheduled = "SCHEDULED"
    ScreeningCancelled = "CANCELLED"
    ScreeningFinished  = "FINISHED"
)

// ScreeningSeat is the authoritative availability record for one seat
// of one screening.  There is exactly one row per seat in the layout
// when a screening is created.  Status moves FREE -> HELD -> RESERVED
// and back to FREE when a hold expires or a booking is cancelled.
//
// Fields:
//  ID          – primary key identifier.
//  ScreeningID – the screening this seat belongs to.
//  SeatLabel   – layout label, e.g. "E7".
//  RowLabel    – row letter.
//  SeatNumber  – 1-based position within the row.
//  Category    – pricing tier.
//  Price       – price in MAD for this seat.
//  Status      – FREE, HELD or RESERVED.
//  Version     – optimistic locking counter bumped on status changes.
type ScreeningSeat struct {
    ID          uint64       `json:"id"`
    ScreeningID uint64       `json:"screening_id"`
    SeatLabel   string       `json:"label"`
    RowLabel    string       `json:"row"`
    SeatNumber  uint32       `json:"number"`
    Category    SeatCategory `json:"category"`
    Price       uint32       `json:"price"`
    Status      string       `json:"status"`
    Version     uint32       `json:"-"`
}

// Screening seat statuses.
const (
    SeatFree     = "FREE"
    SeatHeld     = "HELD"
    SeatReserved = "RESERVED"
)
