package strava

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortTrack/internal/domain/repository"
	xhttp "PortTrack/pkg/http"
)

const activityBody = `{
  "id": 4242,
  "name": "Morning Ride",
  "average_heartrate": 120.5,
  "max_heartrate": 168.0,
  "segment_efforts": [
    {"segment": {"id": 7, "name": "Col du Test", "distance": 1234.5, "average_grade": 6.2}},
    {"segment": {"id": 8, "name": "Sprint", "distance": 300.0, "average_grade": 0.5}}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(xhttp.NewClient(), srv.URL, "secret-token")
}

func TestFetchActivity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activities/4242", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("include_all_efforts"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		w.Write([]byte(activityBody))
	})

	activity, err := c.FetchActivity(context.Background(), 4242)
	require.NoError(t, err)
	assert.Equal(t, uint64(4242), activity.ID)
	assert.Equal(t, "Morning Ride", activity.Name)
	require.NotNil(t, activity.AverageHeartrate)
	assert.Equal(t, 120.5, *activity.AverageHeartrate)
	require.Len(t, activity.Segments, 2)
	assert.Equal(t, "Col du Test", activity.Segments[0].Name)
	assert.True(t, activity.Complete())
}

func TestFetchActivityWithoutHeartrate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 5, "name": "Walk", "segment_efforts": []}`))
	})

	activity, err := c.FetchActivity(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, activity.AverageHeartrate)
	assert.Nil(t, activity.MaxHeartrate)
	assert.False(t, activity.Complete())
}

func TestFetchSegment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/segments/7", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id": 7, "name": "Col du Test", "distance": 1234.5, "average_grade": 6.2}`))
	})

	segment, err := c.FetchSegment(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), segment.ID)
	assert.Equal(t, 6.2, segment.AverageGrade)
}

func TestFetchActivityUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Authorization Error"}`, http.StatusUnauthorized)
	})

	_, err := c.FetchActivity(context.Background(), 4242)
	require.Error(t, err)

	var fetchErr *repository.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "strava", fetchErr.Source)
}
