package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorwatch/models"
)

func TestRenderVarianceChart(t *testing.T) {
	var buf bytes.Buffer
	points := []models.VariancePoint{
		{Hour: 1, Label: "1st Hour", VarianceQty: -12},
		{Hour: 2, Label: "2nd Hour", VarianceQty: 8},
	}

	require.NoError(t, RenderVarianceChart(&buf, "Line-1 variance", points))

	html := buf.String()
	assert.Contains(t, html, "Line-1 variance")
	assert.Contains(t, html, "2nd Hour")
	assert.Contains(t, html, negativeColor)
	assert.Contains(t, html, positiveColor)
}

func TestRenderCompareChart(t *testing.T) {
	var buf bytes.Buffer
	series := []models.ComparePoint{
		{Bucket: "2024-05-01", CompareTotals: models.CompareTotals{PlanPercent: 80, RFTPercent: 92}},
		{Bucket: "2024-05-02", CompareTotals: models.CompareTotals{PlanPercent: 85, RFTPercent: 90}},
	}

	require.NoError(t, RenderCompareChart(&buf, "Compare", series))

	assert.Contains(t, buf.String(), "2024-05-02")
	assert.Contains(t, buf.String(), "RFT %")
}

func TestRenderSummaryChart(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, RenderSummaryChart(&buf, "Summary", []SummaryBar{{Label: "Line-1", PlanPercent: 50, RFTPercent: 90}}))

	assert.Contains(t, buf.String(), "Line-1")
}
