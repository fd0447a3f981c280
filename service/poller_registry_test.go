package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"floorwatch/api/floor"
	"floorwatch/models"
)

func TestPollerRegistry_OnePollerPerViewAndFilter(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.Segments = testSegments(2)
	r := NewPollerRegistry(context.Background(), mock, newTestDAO(t), time.Minute, zap.NewNop())
	defer r.StopAll()

	grid := mustView(t, "grid")
	a := r.Get(grid, testFilter)
	b := r.Get(grid, testFilter)
	assert.Same(t, a, b)

	r.Get(mustView(t, "tv"), testFilter)
	assert.Equal(t, 2, r.Len())

	got, ok := r.Lookup("grid", testFilter)
	require.True(t, ok)
	assert.Same(t, a, got)

	require.Eventually(t, func() bool { return mock.CallCount(floor.OpDashboard) >= 2 }, time.Second, 5*time.Millisecond)
}

func TestPollerRegistry_ReapsIdlePollers(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.Segments = testSegments(1)
	dao := newTestDAO(t)
	r := NewPollerRegistry(context.Background(), mock, dao, time.Minute, zap.NewNop())
	defer r.StopAll()

	now := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.Get(mustView(t, "grid"), testFilter)
	r.Get(mustView(t, "tv"), testFilter)
	require.Eventually(t, func() bool {
		_, found, _ := dao.GetSegments(testFilter.Key())
		return found
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, r.Reap())

	now = now.Add(90 * time.Second)
	r.Lookup("tv", testFilter)
	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, r.Reap(), "grid is idle, tv was read")
	_, found, err := dao.GetSegments(testFilter.Key())
	require.NoError(t, err)
	assert.True(t, found, "tv still reads the filter")

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, r.Reap())
	assert.Equal(t, 0, r.Len())

	_, ok := r.Lookup("grid", testFilter)
	assert.False(t, ok)
	_, found, err = dao.GetSegments(testFilter.Key())
	require.NoError(t, err)
	assert.False(t, found, "last poller gone, cache dropped")
}

func TestPollerRegistry_RetargetKeepsPoller(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.Segments = testSegments(2)
	dao := newTestDAO(t)
	r := NewPollerRegistry(context.Background(), mock, dao, time.Minute, zap.NewNop())
	defer r.StopAll()

	grid := mustView(t, "grid")
	next := models.DashboardFilter{Factory: "K2", Building: "B-2", Date: "2025-01-15"}
	p := r.Get(grid, testFilter)
	require.Eventually(t, func() bool {
		_, found, _ := dao.GetSegments(testFilter.Key())
		return found
	}, time.Second, 5*time.Millisecond)

	moved := r.Retarget(grid, testFilter, next)
	assert.Same(t, p, moved)
	assert.Equal(t, next, p.Filter())
	assert.Equal(t, 1, r.Len())
	_, ok := r.Lookup("grid", testFilter)
	assert.False(t, ok)
	got, ok := r.Lookup("grid", next)
	require.True(t, ok)
	assert.Same(t, p, got)

	require.Eventually(t, func() bool {
		_, found, _ := dao.GetSegments(next.Key())
		return found
	}, time.Second, 5*time.Millisecond)

	purged, err := r.PurgeOrphans()
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
	_, found, err := dao.GetSegments(testFilter.Key())
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = dao.GetSegments(next.Key())
	require.NoError(t, err)
	assert.True(t, found)
}

func TestPollerRegistry_RetargetOntoRunningPoller(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	r := NewPollerRegistry(context.Background(), mock, newTestDAO(t), time.Minute, zap.NewNop())
	defer r.StopAll()

	grid := mustView(t, "grid")
	next := models.DashboardFilter{Factory: "K2", Building: "B-2", Date: "2025-01-15"}
	old := r.Get(grid, testFilter)
	existing := r.Get(grid, next)

	assert.Same(t, existing, r.Retarget(grid, testFilter, next))
	assert.Equal(t, testFilter, old.Filter())
	assert.Equal(t, 2, r.Len())

	fresh := models.DashboardFilter{Factory: "K3", Building: "A-3", Date: "2025-01-15"}
	started := r.Retarget(grid, models.DashboardFilter{Factory: "none"}, fresh)
	assert.Equal(t, fresh, started.Filter())
	assert.Equal(t, 3, r.Len())
}
