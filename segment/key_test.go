package segment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"floorwatch/models"
)

func TestMakeSegmentKey_NormalizesCaseAndWhitespace(t *testing.T) {
	a := MakeSegmentKey("Line-1", "ABC", "S1")
	b := MakeSegmentKey("line-1", " abc ", "s1")

	assert.Equal(t, a, b)
	assert.Equal(t, "line-1__abc__s1", a)
}

func TestMakeSegmentKey_IsTotal(t *testing.T) {
	var nilStr *string
	tests := []struct {
		name  string
		line  any
		buyer any
		style any
		want  string
	}{
		{"all nil", nil, nil, nil, "____"},
		{"nil pointer", "L1", nilStr, "s", "l1____s"},
		{"numbers", 12, 3.5, "x", "12__3.5__x"},
		{"empty buyer", "Line-2", "", "S", "line-2____s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, MakeSegmentKey(tt.line, tt.buyer, tt.style))
			})
		})
	}
}

func TestMakeStyleMediaKey_ColorModelMismatchMisses(t *testing.T) {
	a := MakeStyleMediaKey("F1", "A-2", "ABC", "S1", "Red")
	b := MakeStyleMediaKey("f1", "a-2", "abc", "s1", "red ")
	c := MakeStyleMediaKey("F1", "A-2", "ABC", "S1", "")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func header(id string, created, updated time.Time) models.Header {
	return models.Header{ID: id, CreatedAt: created, UpdatedAt: updated}
}

func TestPickLatest(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	older := header("old", t0, time.Time{})
	newer := header("new", t0, t1)
	bare := header("bare", time.Time{}, time.Time{})
	bare2 := header("bare2", time.Time{}, time.Time{})

	assert.Equal(t, "new", PickLatest(older, newer).ID)
	assert.Equal(t, "new", PickLatest(newer, older).ID)
	assert.Equal(t, "old", PickLatest(older, bare).ID, "missing timestamp counts as epoch")
	assert.Equal(t, "bare2", PickLatest(bare, bare2).ID, "ties resolve to b")
	assert.Equal(t, "old", PickLatest(older, older).ID)
}

func TestReduceHeaders_LatestWins(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	headers := []models.Header{
		{ID: "h1", Line: "Line-1", Buyer: "ABC", Style: "S1", CreatedAt: t0.Add(2 * time.Hour)},
		{ID: "h2", Line: "line-1", Buyer: " abc ", Style: "s1", CreatedAt: t0},
		{ID: "h3", Line: "Line-2", Buyer: "ABC", Style: "S1", CreatedAt: t0},
	}

	got := ReduceHeaders(headers)

	assert.Len(t, got, 2)
	assert.Equal(t, "h1", got[MakeSegmentKey("Line-1", "ABC", "S1")].ID)
	assert.Equal(t, "h3", got[MakeSegmentKey("Line-2", "ABC", "S1")].ID)
}

func TestReduceStyleMedia_FirstSeenWins(t *testing.T) {
	docs := []models.StyleMedia{
		{ID: "m1", Factory: "F", AssignedBuilding: "A", Buyer: "B", Style: "S", ColorModel: "Red"},
		{ID: "m2", Factory: "f", AssignedBuilding: "a", Buyer: "b", Style: "s", ColorModel: "red"},
	}

	got := ReduceStyleMedia(docs)

	assert.Len(t, got, 1)
	assert.Equal(t, "m1", got[MakeStyleMediaKey("F", "A", "B", "S", "Red")].ID)
}
