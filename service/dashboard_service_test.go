package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"floorwatch/api/floor"
	"floorwatch/dao/redis"
	"floorwatch/models"
	"floorwatch/segment"
)

func TestMergeRows(t *testing.T) {
	segments := []models.Segment{
		{
			Line: "Line-1", Buyer: "ABC", Style: "S1",
			Production: models.ProductionStats{TargetQty: 200, AchievedQty: 150, CurrentHour: 2},
			Quality:    models.QualityStats{TotalInspected: 100, TotalPassed: 95, TotalDefects: 8, TotalDefectivePieces: 5},
		},
		{Line: "Line-2", Buyer: "ABC", Style: "S2"},
	}
	headers := segment.ReduceHeaders([]models.Header{{
		ID: "h1", Line: "line-1 ", Buyer: "abc", Style: "S1", ColorModel: "Navy",
		TargetFullDay: 1000, WorkingHour: 10, SMV: 8, ManpowerPresent: 10,
	}})
	media := segment.ReduceStyleMedia([]models.StyleMedia{{
		ID: "m1", Factory: "K2", AssignedBuilding: "B-1", Buyer: "ABC", Style: "S1", ColorModel: "navy", ImageSrc: "/img.png",
	}})
	wip := map[string]models.WipSnapshot{
		segment.MakeSegmentKey("Line-1", "ABC", "S1"): {WIP: 42},
	}

	rows := MergeRows(testFilter, segments, headers, media, wip)
	require.Len(t, rows, 2)

	first := rows[0]
	require.NotNil(t, first.Header)
	assert.Equal(t, "h1", first.Header.ID)
	assert.Equal(t, "Navy", first.ColorModel)
	require.NotNil(t, first.Media)
	assert.Equal(t, "/img.png", first.Media.ImageSrc)
	require.NotNil(t, first.Wip)
	assert.InDelta(t, 75.0, first.PlanPercent, 1e-9)
	assert.InDelta(t, 95.0, first.RFTPercent, 1e-9)
	assert.InDelta(t, 8.0, first.DHUPercent, 1e-9)
	assert.InDelta(t, 5.0, first.DefectRatePercent, 1e-9)
	assert.InDelta(t, 100.0, first.HourlyTarget, 1e-9)
	assert.Equal(t, "42", first.Display["wip"])
	assert.Equal(t, "75.00", first.Display["planPercent"])
	assert.Equal(t, "100", first.Display["hourlyTarget"])
	assert.Equal(t, "100.00", first.Display["efficiency"])

	second := rows[1]
	assert.Nil(t, second.Header)
	assert.Nil(t, second.Media)
	assert.Nil(t, second.Wip)
	assert.Equal(t, "-", second.Display["wip"])
	assert.Equal(t, "-", second.Display["efficiency"])
	assert.Equal(t, "0.00", second.Display["planPercent"])
}

func TestMergeRows_ColorModelMismatchMissesMedia(t *testing.T) {
	segments := []models.Segment{{Line: "Line-1", Buyer: "ABC", Style: "S1", ColorModel: "red"}}
	media := segment.ReduceStyleMedia([]models.StyleMedia{{
		Factory: "K2", AssignedBuilding: "B-1", Buyer: "ABC", Style: "S1", ColorModel: "blue",
	}})

	rows := MergeRows(testFilter, segments, nil, media, nil)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Media)
}

func TestDashboardService_SnapshotAfterTick(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.Segments = []models.Segment{
		{Line: "Line-10", Buyer: "ABC", Style: "S1", Production: models.ProductionStats{TargetQty: 100, AchievedQty: 50}},
		{Line: "Line-2", Buyer: "ABC", Style: "S1", Production: models.ProductionStats{TargetQty: 100, AchievedQty: 100}},
	}
	dao := newTestDAO(t)
	p := NewDashboardPoller(mustView(t, "tv"), testFilter, mock, dao, zap.NewNop())
	require.NoError(t, p.Tick(context.Background()))

	registry := NewPollerRegistry(context.Background(), mock, dao, time.Minute, zap.NewNop())
	svc := NewDashboardService(dao, registry, zap.NewNop())

	state, err := svc.Snapshot("tv", testFilter, p.Displayed())
	require.NoError(t, err)
	assert.True(t, state.Loaded)
	assert.Empty(t, state.Banners)

	var lines []string
	for _, r := range state.Rows {
		lines = append(lines, r.Segment.Line)
	}
	if diff := cmp.Diff([]string{"Line-2", "Line-10"}, lines); diff != "" {
		t.Errorf("row order (-want +got):\n%s", diff)
	}
	assert.Equal(t, segment.MakeSegmentKey("Line-2", "ABC", "S1"), state.Displayed)
	assert.InDelta(t, 75.0, state.Summary.PlanPercent, 1e-9)
}

func TestDashboardService_BannersFromStatuses(t *testing.T) {
	dao := newTestDAO(t)
	registry := NewPollerRegistry(context.Background(), floor.NewFloorApiClientMock(), dao, time.Minute, zap.NewNop())
	svc := NewDashboardService(dao, registry, zap.NewNop())

	require.NoError(t, dao.SetStatus(testFilter.Key(), SourceWip, redis.SourceStatus{Error: "WIP down"}))
	require.NoError(t, dao.SetStatus(testFilter.Key(), SourceHeaders, redis.SourceStatus{Error: "Header down"}))
	require.NoError(t, dao.SetStatus(testFilter.Key(), SourceSegments, redis.SourceStatus{}))

	state, err := svc.Snapshot("grid", testFilter, "")
	require.NoError(t, err)
	assert.False(t, state.Loaded)

	want := []Banner{
		{Source: SourceHeaders, Message: "Header down"},
		{Source: SourceWip, Message: "WIP down"},
	}
	if diff := cmp.Diff(want, state.Banners, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("banners (-want +got):\n%s", diff)
	}
}

func TestDashboardService_StateStartsPoller(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.Segments = testSegments(1)
	dao := newTestDAO(t)
	registry := NewPollerRegistry(context.Background(), mock, dao, time.Minute, zap.NewNop())
	defer registry.StopAll()
	svc := NewDashboardService(dao, registry, zap.NewNop())

	_, err := svc.State(mustView(t, "grid"), testFilter)
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Len())

	require.Eventually(t, func() bool {
		state, err := svc.State(mustView(t, "grid"), testFilter)
		return err == nil && state.Loaded && len(state.Rows) == 1
	}, time.Second, 5*time.Millisecond)
}
