package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"floorwatch/api/floor"
	"floorwatch/models"
)

func TestSummaryService_Summary(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.Summary = &models.FloorSummaryResponse{
		Success: true,
		Summary: models.CompareTotals{RFTPercent: 12}, // stale upstream value
		Lines: []models.LineSummary{
			{Building: "B-1", Line: "Line-10", TargetQty: 100, AchievedQty: 100, Inspected: 100, Passed: 100},
			{Building: "B-1", Line: "Line-2", TargetQty: 300, AchievedQty: 100, Inspected: 300, Passed: 200, Defects: 30},
		},
		Buildings:         []models.BuildingSummary{{Building: "B-2"}, {Building: "B-1"}},
		BestLineSelection: json.RawMessage(`{"line":"Line-10"}`),
	}
	svc := NewSummaryService(mock, zap.NewNop())

	resp, err := svc.Summary(context.Background(), models.SummaryQuery{Factory: "K2", Date: "2025-01-15"})
	require.NoError(t, err)

	// sums first: 200/400 and 300/400, not the average of per-line percents
	assert.InDelta(t, 50.0, resp.Summary.PlanPercent.Float(), 1e-9)
	assert.InDelta(t, 75.0, resp.Summary.RFTPercent.Float(), 1e-9)
	assert.InDelta(t, 7.5, resp.Summary.DHUPercent.Float(), 1e-9)

	assert.Equal(t, "Line-2", resp.Lines[0].Line)
	assert.Equal(t, "B-1", resp.Buildings[0].Building)
	assert.JSONEq(t, `{"line":"Line-10"}`, string(resp.BestLineSelection))

	bars := SummaryBars(resp)
	require.Len(t, bars, 2)
	assert.Equal(t, "B-1 Line-2", bars[0].Label)
	assert.InDelta(t, 100.0/3, bars[0].PlanPercent, 1e-9)
}

func TestSummaryService_Compare(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.Compare = &models.FloorCompareResponse{
		Success: true,
		Series: []models.ComparePoint{
			{Bucket: "2025-01-14", CompareTotals: models.CompareTotals{TargetQty: 100, AchievedQty: 150, Inspected: 10, Passed: 9}},
			{Bucket: "2025-01-15", CompareTotals: models.CompareTotals{PlanPercent: 80, RFTPercent: 95, DHUPercent: 3}},
		},
	}
	svc := NewSummaryService(mock, zap.NewNop())

	resp, err := svc.Compare(context.Background(), models.CompareQuery{Factory: "K2", From: "2025-01-14", To: "2025-01-15"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, resp.Series[0].PlanPercent.Float(), "clamped")
	assert.InDelta(t, 90.0, resp.Series[0].RFTPercent.Float(), 1e-9)
	// percents without counts are the server's
	assert.Equal(t, 80.0, resp.Series[1].PlanPercent.Float())
	assert.Equal(t, 95.0, resp.Series[1].RFTPercent.Float())
	assert.Equal(t, 3.0, resp.Series[1].DHUPercent.Float())
}

func TestSummaryService_PropagatesErrors(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.BeforeCall = func(ctx context.Context, op string) error { return context.DeadlineExceeded }
	svc := NewSummaryService(mock, zap.NewNop())

	_, err := svc.Summary(context.Background(), models.SummaryQuery{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRecomputeTotals_PartialCounts(t *testing.T) {
	got := RecomputeTotals(models.CompareTotals{
		TargetQty: 200, AchievedQty: 150,
		PlanPercent: 10, RFTPercent: 91, DefectRatePercent: 4,
	})

	assert.InDelta(t, 75.0, got.PlanPercent.Float(), 1e-9)
	assert.Equal(t, 91.0, got.RFTPercent.Float())
	assert.Equal(t, 4.0, got.DefectRatePercent.Float())
}
