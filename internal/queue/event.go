// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a checkout is successfully confirmed.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID   uint64   `json:"booking_id"`
    UserID      uint64   `json:"user_id"`
    ScreeningID uint64   `json:"screening_id"`
    MovieTitle  string   `json:"movie_title"`
    ShowDate    string   `json:"show_date"`
    ShowTime    string   `json:"show_time"`
    SeatLabels  []string `json:"seats"`
    TotalPrice  uint32   `json:"total_price"`
    BookingCode string   `json:"booking_code"`
    ConfirmedAt string   `json:"confirmed_at"`
}
