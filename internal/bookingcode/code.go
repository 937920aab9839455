// Package bookingcode generates the human-readable references handed
// to customers after a successful booking.  Codes look like
// "SAH-7K2M9QX1": a fixed prefix followed by eight characters drawn
// from the uppercase alphanumeric alphabet.  Uniqueness is enforced
// by the bookings table, not here; callers retry on a duplicate key.
package bookingcode

import (
    "crypto/rand"
    "regexp"
)

// Prefix is the fixed literal in front of every code.
const Prefix = "SAH-"

// codeLen is the number of random characters after the prefix.
const codeLen = 8

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var codePattern = regexp.MustCompile(`^SAH-[A-Z0-9]{8}$`)

// New returns a fresh booking code.  Random characters come from
// crypto/rand; the slight modulo bias over a 36-character alphabet is
// irrelevant for a display reference.
func New() (string, error) {
    buf := make([]byte, codeLen)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    out := make([]byte, 0, len(Prefix)+codeLen)
    out = append(out, Prefix...)
    for _, b := range buf {
        out = append(out, alphabet[int(b)%len(alphabet)])
    }
    return string(out), nil
}

// Valid reports whether s is a well-formed booking code.
func Valid(s string) bool {
    return codePattern.MatchString(s)
}
