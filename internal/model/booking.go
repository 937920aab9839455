package model

import "time"

// Booking is the persisted record created once per successful
// checkout.  Movie title, date and time are stored as the display
// strings the user booked against; seats are stored as a list of
// layout labels.  TotalPrice already includes the service fee.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – owner of the booking.
//  ScreeningID   – screening the seats were reserved against.
//  MovieTitle    – display title.
//  ShowDate      – display date, "2006-01-02".
//  ShowTime      – display time, "15:04".
//  SelectedSeats – seat labels booked, e.g. ["E7","E8"].
//  TotalPrice    – subtotal plus service fee, in MAD.
//  BookingCode   – unique human-readable reference, "SAH-XXXXXXXX".
//  CreatedAt     – creation timestamp.
type Booking struct {
    ID            uint64    `json:"id"`
    UserID        uint64    `json:"user_id"`
    ScreeningID   uint64    `json:"screening_id"`
    MovieTitle    string    `json:"movie_title"`
    ShowDate      string    `json:"show_date"`
    ShowTime      string    `json:"show_time"`
    SelectedSeats []string  `json:"selected_seats"`
    TotalPrice    uint32    `json:"total_price"`
    BookingCode   string    `json:"booking_code"`
    CreatedAt     time.Time `json:"created_at"`
}
