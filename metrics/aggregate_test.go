package metrics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorwatch/models"
)

func seg(target, achieved, inspected, passed, defects, defective float64) models.Segment {
	return models.Segment{
		Production: models.ProductionStats{
			TargetQty:   models.Number(target),
			AchievedQty: models.Number(achieved),
		},
		Quality: models.QualityStats{
			TotalInspected:       models.Number(inspected),
			TotalPassed:          models.Number(passed),
			TotalDefects:         models.Number(defects),
			TotalDefectivePieces: models.Number(defective),
		},
	}
}

func TestSummarize_SumsBeforeDividing(t *testing.T) {
	rows := []models.Segment{
		seg(100, 80, 10, 9, 2, 1),
		seg(300, 150, 90, 60, 45, 30),
	}

	got := Summarize(rows)

	// averaging the row RFTs would give (90+66.67)/2 = 78.3
	assert.InDelta(t, 69.0, got.RFTPercent, 1e-9)
	assert.InDelta(t, 47.0, got.DHUPercent, 1e-9)
	assert.InDelta(t, 31.0, got.DefectRatePercent, 1e-9)
	assert.InDelta(t, 57.5, got.PlanPercent, 1e-9)
	assert.Equal(t, 2, got.Segments)
}

func TestSummarize_AggregationInvariance(t *testing.T) {
	rows := []models.Segment{
		seg(120, 60, 33, 30, 4, 3),
		seg(80, 90, 17, 11, 9, 6),
		seg(0, 5, 0, 0, 0, 0),
	}
	single := []models.Segment{seg(200, 155, 50, 41, 13, 9)}

	many, one := Summarize(rows), Summarize(single)

	assert.InDelta(t, one.RFTPercent, many.RFTPercent, 1e-9)
	assert.InDelta(t, one.DHUPercent, many.DHUPercent, 1e-9)
	assert.InDelta(t, one.DefectRatePercent, many.DefectRatePercent, 1e-9)
	assert.InDelta(t, one.PlanPercent, many.PlanPercent, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil)
	assert.Equal(t, 0.0, got.RFTPercent)
	assert.Equal(t, 0.0, got.PlanPercent)
}

func TestVarianceSeries(t *testing.T) {
	records := []models.VarianceRecord{
		{Hour: 3, AchievedQty: 95, VarianceQty: models.NumberOf(5)},
		{Hour: 1, AchievedQty: 80, HourlyTarget: 90},
		{Hour: 2, HourLabel: "2nd Hour", AchievedQty: 70},
	}

	got := VarianceSeries(records, 100)

	assert.Equal(t, []models.VariancePoint{
		{Hour: 1, Label: "H1", VarianceQty: -10},
		{Hour: 2, Label: "2nd Hour", VarianceQty: -30},
		{Hour: 3, Label: "H3", VarianceQty: 5},
	}, got)
}

func TestVarianceSeries_ReportedZeroIsKept(t *testing.T) {
	records := []models.VarianceRecord{
		{Hour: 1, AchievedQty: 50, VarianceQty: models.NumberOf(0)},
		{Hour: 2, AchievedQty: 50},
	}

	got := VarianceSeries(records, 0)

	assert.Equal(t, []models.VariancePoint{
		{Hour: 1, Label: "H1", VarianceQty: 0},
		{Hour: 2, Label: "H2", VarianceQty: 0},
	}, got)
}

func TestVarianceSeries_DecodedZeroIsReported(t *testing.T) {
	var records []models.VarianceRecord
	require.NoError(t, json.Unmarshal([]byte(`[
		{"hour": 1, "achievedQty": 60, "hourlyTarget": 60, "varianceQty": 0},
		{"hour": 2, "achievedQty": 70, "hourlyTarget": 60, "varianceQty": null}
	]`), &records))

	got := VarianceSeries(records, 0)

	require.Len(t, got, 2)
	assert.Equal(t, 0.0, got[0].VarianceQty)
	assert.Equal(t, 10.0, got[1].VarianceQty)
}
