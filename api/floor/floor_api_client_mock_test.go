package floor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorwatch/api"
	"floorwatch/models"
)

func TestFloorApiClientMock_HeaderLifecycle(t *testing.T) {
	client := NewFloorApiClientMock()
	ctx := context.Background()

	created, err := client.CreateHeader(ctx, models.Header{Line: "Line-1", Buyer: "ABC", Style: "S1"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = client.UpdateHeader(ctx, created.ID, models.Header{Line: "Line-1", Buyer: "ABC", Style: "S1", SMV: 10})
	require.NoError(t, err)

	headers, err := client.ListHeaders(ctx, models.DashboardFilter{Line: "line-1"})
	require.NoError(t, err)
	require.Len(t, headers, 1)
	assert.Equal(t, 10.0, headers[0].SMV.Float())
	assert.False(t, headers[0].UpdatedAt.IsZero())

	require.NoError(t, client.DeleteHeader(ctx, created.ID))
	assert.True(t, api.IsNotFound(client.DeleteHeader(ctx, created.ID)))
	assert.Equal(t, 2, client.CallCount(OpDeleteHeader))
}

func TestFloorApiClientMock_BeforeCallInjectsErrors(t *testing.T) {
	client := NewFloorApiClientMock()
	boom := errors.New("boom")
	client.BeforeCall = func(ctx context.Context, op string) error {
		if op == OpStyleWip {
			return boom
		}
		return nil
	}

	_, err := client.GetStyleWip(context.Background(), models.WipQuery{})
	assert.ErrorIs(t, err, boom)

	_, err = client.GetDashboard(context.Background(), models.DashboardFilter{})
	assert.NoError(t, err)
}

func TestFloorApiClientMock_CancelledContext(t *testing.T) {
	client := NewFloorApiClientMock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetDashboard(ctx, models.DashboardFilter{})

	assert.True(t, api.IsAbort(err))
}
