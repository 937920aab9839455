// Package ticket builds the opaque payload rendered as a scannable
// code on receipts.  Rendering is a client concern; the service only
// guarantees a stable JSON shape that gate scanners can decode.
package ticket

import "encoding/json"

// Payload is what gets encoded into the QR code shown on the success
// screen and on each saved booking.
type Payload struct {
    Confirmation string   `json:"confirmation"`
    Movie        string   `json:"movie"`
    Date         string   `json:"date"`
    Time         string   `json:"time"`
    Seats        []string `json:"seats"`
}

// Encode serialises the payload to the JSON string handed to the
// renderer.
func Encode(p Payload) (string, error) {
    b, err := json.Marshal(p)
    if err != nil {
        return "", err
    }
    return string(b), nil
}
