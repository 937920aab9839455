package ticket

import (
    "encoding/json"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
    s, err := Encode(Payload{
        Confirmation: "SAH-ABCD1234",
        Movie:        "Dune: Part Two",
        Date:         "2026-09-12",
        Time:         "20:30",
        Seats:        []string{"E7", "E8"},
    })
    require.NoError(t, err)

    var back map[string]any
    require.NoError(t, json.Unmarshal([]byte(s), &back))
    assert.Equal(t, "SAH-ABCD1234", back["confirmation"])
    assert.Equal(t, []any{"E7", "E8"}, back["seats"])
}
