package bookingcode

import (
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
    for i := 0; i < 200; i++ {
        code, err := New()
        require.NoError(t, err)
        assert.True(t, Valid(code), "bad code %q", code)
        assert.True(t, strings.HasPrefix(code, "SAH-"))
        assert.Len(t, code, len(Prefix)+8)
    }
}

func TestValid(t *testing.T) {
    cases := []struct {
        in string
        ok bool
    }{
        {"SAH-ABCD1234", true},
        {"SAH-00000000", true},
        {"SAH-abcd1234", false}, // lowercase
        {"SAH-ABCD123", false},  // too short
        {"SAH-ABCD12345", false}, // too long
        {"XYZ-ABCD1234", false}, // wrong prefix
        {"SAH-ABCD 234", false}, // whitespace
        {"", false},
    }
    for _, tc := range cases {
        assert.Equal(t, tc.ok, Valid(tc.in), "input %q", tc.in)
    }
}
