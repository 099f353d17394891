package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// toInt64 widens generated bytes for JSON output and storage.
// encoding/json would otherwise render []uint8 as base64.
func toInt64(s []uint8) []int64 {
	out := make([]int64, len(s))
	for i, b := range s {
		out[i] = int64(b)
	}
	return out
}

// toBytes narrows a stored input back to the generator's element type.
// Values outside 0..255 cannot come from this property, so the row is
// rejected rather than replayed as a different input.
func toBytes(s []int64) ([]uint8, error) {
	out := make([]uint8, len(s))
	for i, n := range s {
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("value %d at index %d is outside 0..255", n, i)
		}
		out[i] = uint8(n)
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
