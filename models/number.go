package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a float64 that tolerates the loosely typed numeric fields the
// floor backend emits: JSON numbers, numeric strings, null and "".
// Anything unparseable decodes to zero.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}

	if b[0] == 't' || b[0] == 'f' {
		*n = 0
		return nil
	}

	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Float returns the value as a float64.
func (n Number) Float() float64 { return float64(n) }

// NumberOf returns a pointer to f as a Number, for optional fields.
func NumberOf(f float64) *Number {
	n := Number(f)
	return &n
}

// Int truncates toward zero.
func (n Number) Int() int { return int(n) }
