package forms

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"floorwatch/api"
	"floorwatch/api/floor"
	"floorwatch/models"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newClock() *clock {
	return &clock{t: time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)}
}

var day = models.InspectionQuery{Date: "2025-01-15", Building: "A-2"}

func existingInspection() models.Inspection {
	return models.Inspection{
		ID: "i1", Date: "2025-01-15", Building: "A-2", Line: "Line-1", HourLabel: "2nd Hour",
		InspectedQty: 50, PassedQty: 48,
	}
}

func TestInspectionForm_DuplicateBlocksCreate(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.Inspections = []models.Inspection{existingInspection()}
	notices := NewNotices(4*time.Second, newClock().now)
	form := NewInspectionForm(mock, day, notices, zap.NewNop())

	form.SetDraft(models.Inspection{Date: "2025-01-15", Building: "a-2", Line: "line-1", HourLabel: "2nd Hour"})
	_, err := form.Save(context.Background())

	var dup *DuplicateInspectionError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 0, mock.CallCount(floor.OpCreateInspect), "no network write")
	assert.Equal(t, 1, mock.CallCount(floor.OpListInspections), "rows reloaded before the check")
	require.Len(t, notices.Toasts(), 1)
	assert.Equal(t, LevelError, notices.Toasts()[0].Level)
	assert.False(t, form.Saving())
}

func TestInspectionForm_OtherHourIsCreated(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.Inspections = []models.Inspection{existingInspection()}
	form := NewInspectionForm(mock, day, NewNotices(4*time.Second, nil), zap.NewNop())

	form.SetDraft(models.Inspection{Date: "2025-01-15", Building: "A-2", Line: "Line-1", HourLabel: "3rd Hour"})
	saved, err := form.Save(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Len(t, form.Rows(), 2)
	assert.Equal(t, ModeCreate, form.Mode())
}

func TestInspectionForm_EditingSameRowIsAllowed(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	row := existingInspection()
	mock.Inspections = []models.Inspection{row}
	form := NewInspectionForm(mock, day, NewNotices(4*time.Second, nil), zap.NewNop())
	require.NoError(t, form.Load(context.Background()))

	form.Edit(row)
	assert.Equal(t, ModeEditing, form.Mode())
	row.PassedQty = 49
	form.SetDraft(row)

	_, err := form.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, mock.CallCount(floor.OpUpdateInspect))
	assert.Equal(t, 0, mock.CallCount(floor.OpCreateInspect))
	assert.Equal(t, models.Number(49), form.Rows()[0].PassedQty)
	assert.Equal(t, ModeCreate, form.Mode())
}

func TestInspectionDuplicateGuard_SkipsEditedRow(t *testing.T) {
	rows := []models.Inspection{existingInspection()}
	draft := existingInspection()
	draft.ID = ""

	assert.Error(t, InspectionDuplicateGuard(draft, rows, ""))
	assert.NoError(t, InspectionDuplicateGuard(draft, rows, "i1"))
}

func TestInspectionDuplicateGuard_LabelMatchesStoredIndex(t *testing.T) {
	stored := existingInspection()
	stored.HourLabel = ""
	stored.HourIndex = 2

	draft := existingInspection()
	draft.ID = ""
	draft.HourLabel = "2nd Hour"
	draft.HourIndex = 0
	assert.Error(t, InspectionDuplicateGuard(draft, []models.Inspection{stored}, ""))

	draft.HourLabel = "3rd Hour"
	assert.NoError(t, InspectionDuplicateGuard(draft, []models.Inspection{stored}, ""))

	indexed := existingInspection()
	indexed.ID = ""
	indexed.HourLabel = ""
	indexed.HourIndex = 2
	assert.Error(t, InspectionDuplicateGuard(indexed, []models.Inspection{stored}, ""))
}

func TestForm_DeleteRequiresConfirmation(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.Headers = []models.Header{{ID: "h1", Line: "Line-1"}}
	form := NewHeaderForm(mock, models.DashboardFilter{}, NewNotices(4*time.Second, nil), zap.NewNop())
	require.NoError(t, form.Load(context.Background()))

	assert.ErrorIs(t, form.Delete(context.Background(), "h1", false), ErrNotConfirmed)
	assert.Equal(t, 0, mock.CallCount(floor.OpDeleteHeader))
	assert.Len(t, form.Rows(), 1)
}

func TestForm_DeleteNotFoundIsSuccess(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.Headers = []models.Header{{ID: "h1", Line: "Line-1"}, {ID: "h2", Line: "Line-2"}}
	notices := NewNotices(4*time.Second, nil)
	form := NewHeaderForm(mock, models.DashboardFilter{}, notices, zap.NewNop())
	require.NoError(t, form.Load(context.Background()))
	form.Edit(form.Rows()[0])

	// someone else already deleted it
	mock.Headers = mock.Headers[1:]

	require.NoError(t, form.Delete(context.Background(), "h1", true))
	require.Len(t, form.Rows(), 1)
	assert.Equal(t, "h2", form.Rows()[0].ID)
	assert.Equal(t, ModeCreate, form.Mode(), "deleting the edited row exits edit mode")
	assert.False(t, form.Deleting())
	assert.Equal(t, LevelSuccess, notices.Toasts()[0].Level)
}

func TestForm_SaveFailureToastsServerMessage(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.BeforeCall = func(ctx context.Context, op string) error {
		if op == floor.OpCreateHeader {
			return &api.Error{StatusCode: http.StatusBadRequest, Status: "400 Bad Request", Message: "line is required"}
		}
		return nil
	}
	notices := NewNotices(4*time.Second, nil)
	form := NewHeaderForm(mock, models.DashboardFilter{}, notices, zap.NewNop())
	form.SetDraft(models.Header{Buyer: "ABC"})

	_, err := form.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, "line is required", notices.Toasts()[0].Message)
	assert.False(t, form.Saving(), "flag clears on failure")
	assert.Equal(t, "ABC", form.Draft().Buyer, "draft kept for retry")
}

func TestForm_SaveFailureFallsBackToGenericMessage(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	mock.BeforeCall = func(ctx context.Context, op string) error {
		return errors.New("connection refused")
	}
	notices := NewNotices(4*time.Second, nil)
	form := NewStyleMediaForm(mock, models.DashboardFilter{}, notices, zap.NewNop())

	_, err := form.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to save style media", notices.Toasts()[0].Message)
}

func TestForm_LoadBannerPersistsUntilSuccess(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	fail := true
	mock.BeforeCall = func(ctx context.Context, op string) error {
		if fail {
			return &api.Error{StatusCode: http.StatusBadGateway, Status: "502 Bad Gateway"}
		}
		return nil
	}
	notices := NewNotices(4*time.Second, nil)
	form := NewHeaderForm(mock, models.DashboardFilter{}, notices, zap.NewNop())

	require.Error(t, form.Load(context.Background()))
	assert.Equal(t, "Failed to load header", notices.Banner())

	fail = false
	require.NoError(t, form.Load(context.Background()))
	assert.Empty(t, notices.Banner())
}

func TestForm_AbortIsSilent(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	notices := NewNotices(4*time.Second, nil)
	form := NewHeaderForm(mock, models.DashboardFilter{}, notices, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := form.Save(ctx)
	assert.True(t, api.IsAbort(err))
	assert.Empty(t, notices.Toasts())
	assert.Empty(t, notices.Banner())
}

func TestMediaLinksForm_CreateThenUpdate(t *testing.T) {
	mock := floor.NewFloorApiClientMock()
	form := NewMediaLinksForm(mock, "u1", NewNotices(4*time.Second, nil), zap.NewNop())
	require.NoError(t, form.Load(context.Background()))
	assert.Empty(t, form.Rows())

	form.SetDraft(models.MediaLinks{ImageSrc: "/a.png"})
	saved, err := form.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", saved.UserID)

	form.Edit(*saved)
	form.SetDraft(models.MediaLinks{ImageSrc: "/b.png"})
	_, err = form.Save(context.Background())
	require.NoError(t, err)
	require.Len(t, form.Rows(), 1)
	assert.Equal(t, "/b.png", form.Rows()[0].ImageSrc)
	assert.Equal(t, saved.ID, form.Rows()[0].ID)

	assert.ErrorIs(t, form.Delete(context.Background(), saved.ID, true), ErrUnsupported)
}
