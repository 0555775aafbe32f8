package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Numeric is a float64 whose JSON decoding tolerates the raw values an
// editing surface produces: quoted numeric strings, empty strings, and
// garbage all decode to 0 instead of failing.
type Numeric float64

func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = sanitize(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*n = 0
		return nil
	}
	*n = sanitize(v)
	return nil
}

// Float returns the value with NaN and infinities collapsed to 0.
func (n Numeric) Float() float64 {
	return float64(sanitize(float64(n)))
}

func sanitize(v float64) Numeric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return Numeric(v)
}
