package segment

import (
	"sort"
	"strconv"
	"strings"

	"floorwatch/models"
)

// LineNumber extracts the first run of digits in label ("Line-12" -> 12).
func LineNumber(label string) (int, bool) {
	start := -1
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c >= '0' && c <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return atoi(label[start:i])
		}
	}
	if start >= 0 {
		return atoi(label[start:])
	}
	return 0, false
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// LessLine orders labels numerically by their first digit run. Labels
// without digits go last; remaining ties fall back to the label itself.
func LessLine(a, b string) bool {
	na, oka := LineNumber(a)
	nb, okb := LineNumber(b)
	switch {
	case oka && okb && na != nb:
		return na < nb
	case oka != okb:
		return oka
	}
	return strings.ToLower(a) < strings.ToLower(b)
}

// SortSegments sorts in place by line number, then style.
func SortSegments(segments []models.Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		a, b := segments[i], segments[j]
		na, oka := LineNumber(a.Line)
		nb, okb := LineNumber(b.Line)
		if oka != okb {
			return oka
		}
		if na != nb {
			return na < nb
		}
		if as, bs := Normalize(a.Style), Normalize(b.Style); as != bs {
			return as < bs
		}
		return Normalize(a.Line) < Normalize(b.Line)
	})
}
