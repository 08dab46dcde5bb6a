package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortTrack/internal/domain/models"
	"PortTrack/internal/domain/repository"
	"PortTrack/internal/ledger"
	"PortTrack/internal/storage"
	applogger "PortTrack/pkg/logger"
)

type fakeActivitySource struct {
	activities map[uint64]models.Activity
	segments   map[uint64]models.Segment
	err        error
	calls      int
}

func (f *fakeActivitySource) FetchActivity(_ context.Context, id uint64) (models.Activity, error) {
	f.calls++
	if f.err != nil {
		return models.Activity{}, f.err
	}
	return f.activities[id], nil
}

func (f *fakeActivitySource) FetchSegment(_ context.Context, id uint64) (models.Segment, error) {
	if f.err != nil {
		return models.Segment{}, f.err
	}
	return f.segments[id], nil
}

func floatPtr(v float64) *float64 { return &v }

func newActivityFixture(t *testing.T, src *fakeActivitySource) (*echo.Echo, *ledger.ActivityLedger) {
	t.Helper()
	activities := ledger.NewActivityLedger(storage.New(t.TempDir()), src, nil)
	e := echo.New()
	NewActivityHandler(applogger.Nop(), activities, src).RegisterRoutes(e)
	return e, activities
}

func TestGetActivityFetchesFromSource(t *testing.T) {
	src := &fakeActivitySource{activities: map[uint64]models.Activity{
		42: {
			ID:               42,
			Name:             "Evening Run",
			Segments:         []models.Segment{{ID: 1, Name: "Hill"}},
			AverageHeartrate: floatPtr(130),
			MaxHeartrate:     floatPtr(170),
		},
	}}
	e, _ := newActivityFixture(t, src)

	_, resp := doJSON(t, e, http.MethodGet, "/api/activities/42", "")
	assert.Equal(t, http.StatusOK, resp.Status)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var activity models.Activity
	require.NoError(t, json.Unmarshal(raw, &activity))
	assert.Equal(t, "Evening Run", activity.Name)
	require.NotNil(t, activity.MaxHeartrate)
	assert.Equal(t, 170.0, *activity.MaxHeartrate)
	assert.Equal(t, 1, src.calls)
}

func TestGetCompleteActivitySkipsSource(t *testing.T) {
	src := &fakeActivitySource{activities: map[uint64]models.Activity{
		42: {
			ID:               42,
			Name:             "Evening Run",
			Segments:         []models.Segment{{ID: 1}},
			AverageHeartrate: floatPtr(130),
			MaxHeartrate:     floatPtr(170),
		},
	}}
	e, _ := newActivityFixture(t, src)

	doJSON(t, e, http.MethodGet, "/api/activities/42", "")
	doJSON(t, e, http.MethodGet, "/api/activities/42", "")
	assert.Equal(t, 1, src.calls, "complete record must not refetch")
}

func TestGetActivityBadID(t *testing.T) {
	e, _ := newActivityFixture(t, &fakeActivitySource{})

	_, resp := doJSON(t, e, http.MethodGet, "/api/activities/notanumber", "")
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestGetActivitySourceFailure(t *testing.T) {
	src := &fakeActivitySource{err: repository.NewFetchError("strava", "activity 42", assert.AnError)}
	e, _ := newActivityFixture(t, src)

	_, resp := doJSON(t, e, http.MethodGet, "/api/activities/42", "")
	assert.Equal(t, http.StatusBadGateway, resp.Status)
}

func TestGetSegment(t *testing.T) {
	src := &fakeActivitySource{segments: map[uint64]models.Segment{
		7: {ID: 7, Name: "Col du Test", Distance: 1234.5, AverageGrade: 6.2},
	}}
	e, _ := newActivityFixture(t, src)

	_, resp := doJSON(t, e, http.MethodGet, "/api/segments/7", "")
	assert.Equal(t, http.StatusOK, resp.Status)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var segment models.Segment
	require.NoError(t, json.Unmarshal(raw, &segment))
	assert.Equal(t, "Col du Test", segment.Name)
}
