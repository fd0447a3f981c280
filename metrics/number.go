// Package metrics computes the derived dashboard figures (plan %, RFT %,
// DHU %, defect rate %, efficiency) from raw counts.
package metrics

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"floorwatch/models"
)

// ToNumber coerces v to a float64. nil, empty strings and anything
// unparseable yield NaN.
func ToNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case models.Number:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ClampPercent coerces v and clamps it to [0, 100]. Non-finite input is 0.
func ClampPercent(v any) float64 {
	f := ToNumber(v)
	if !finite(f) {
		return 0
	}
	return math.Min(100, math.Max(0, f))
}

// FormatNumber renders v with exactly digits decimals, or "-" when v is not
// a finite number.
func FormatNumber(v any, digits int) string {
	f := ToNumber(v)
	if !finite(f) {
		return "-"
	}
	if digits < 0 {
		digits = 0
	}
	return strconv.FormatFloat(f, 'f', digits, 64)
}

// Ratio returns numerator/denominator*100, or 0 when denominator is not
// positive or either side is not finite.
func Ratio(numerator, denominator float64) float64 {
	if !finite(numerator) || !finite(denominator) || denominator <= 0 {
		return 0
	}
	return numerator / denominator * 100
}
