// Package segment derives the identity keys that join dashboard segments,
// target headers, WIP snapshots and style media together.
package segment

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KeySeparator joins normalized fields. Line, buyer and style labels never
// contain a double underscore.
const KeySeparator = "__"

// Normalize coerces v to a trimmed, lower-cased string. nil becomes "".
func Normalize(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case *string:
		if t == nil {
			return ""
		}
		s = *t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		s = fmt.Sprint(t)
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// MakeSegmentKey identifies a (line, buyer, style) segment.
func MakeSegmentKey(line, buyer, style any) string {
	return join(line, buyer, style)
}

// MakeStyleMediaKey identifies style media. A colorModel mismatch is a miss
// even when buyer and style agree.
func MakeStyleMediaKey(factory, building, buyer, style, colorModel any) string {
	return join(factory, building, buyer, style, colorModel)
}

func join(fields ...any) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = Normalize(f)
	}
	return strings.Join(parts, KeySeparator)
}

// Timestamped is implemented by records that carry created/updated times.
type Timestamped interface {
	CreatedTime() time.Time
	UpdatedTime() time.Time
}

// EffectiveTime is UpdatedTime, falling back to CreatedTime. Zero means
// the record carries no timestamp and sorts as the epoch.
func EffectiveTime(r Timestamped) time.Time {
	if t := r.UpdatedTime(); !t.IsZero() {
		return t
	}
	return r.CreatedTime()
}

// PickLatest returns a when its effective time is strictly later than b's,
// otherwise b.
func PickLatest[T Timestamped](a, b T) T {
	ta, tb := effectiveUnix(a), effectiveUnix(b)
	if ta > tb {
		return a
	}
	return b
}

func effectiveUnix(r Timestamped) int64 {
	t := EffectiveTime(r)
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
