package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortTrack/internal/domain/models"
	"PortTrack/internal/domain/repository"
	"PortTrack/internal/storage"
)

type fakeActivitySource struct {
	mu         sync.Mutex
	activities map[uint64]models.Activity
	segments   map[uint64]models.Segment
	calls      int
	fail       error
}

func (f *fakeActivitySource) FetchActivity(_ context.Context, id uint64) (models.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail != nil {
		return models.Activity{}, f.fail
	}
	act, ok := f.activities[id]
	if !ok {
		return models.Activity{}, repository.NewFetchError("fake", "activity", errors.New("unknown id"))
	}
	return act, nil
}

func (f *fakeActivitySource) FetchSegment(_ context.Context, id uint64) (models.Segment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seg, ok := f.segments[id]
	if !ok {
		return models.Segment{}, repository.NewFetchError("fake", "segment", errors.New("unknown id"))
	}
	return seg, nil
}

func f64(v float64) *float64 { return &v }

func completeActivity() models.Activity {
	return models.Activity{
		ID:               1,
		Name:             "Morning Ride",
		Segments:         []models.Segment{{ID: 10, Name: "Hill", Distance: 900, AverageGrade: 4.1}},
		AverageHeartrate: f64(120),
		MaxHeartrate:     f64(160),
	}
}

func TestGetFetchesAbsentActivity(t *testing.T) {
	src := &fakeActivitySource{activities: map[uint64]models.Activity{1: completeActivity()}}
	l := NewActivityLedger(storage.New(t.TempDir()), src, nil)

	act, err := l.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, completeActivity(), act)
	assert.Equal(t, 1, src.calls)
}

func TestGetCompleteSkipsSource(t *testing.T) {
	src := &fakeActivitySource{activities: map[uint64]models.Activity{1: completeActivity()}}
	l := NewActivityLedger(storage.New(t.TempDir()), src, nil)

	_, err := l.Get(context.Background(), 1)
	require.NoError(t, err)
	_, err = l.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls, "complete record must not refetch")
}

func TestGetPartialRefetchesAndFillsGaps(t *testing.T) {
	partial := models.Activity{ID: 1, Name: "Morning Ride", AverageHeartrate: f64(120)}
	src := &fakeActivitySource{activities: map[uint64]models.Activity{1: partial}}
	l := NewActivityLedger(storage.New(t.TempDir()), src, nil)

	act, err := l.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, act.Complete())
	assert.Equal(t, 1, src.calls)

	// Source now has the rest; next get fills the gaps.
	src.mu.Lock()
	src.activities[1] = completeActivity()
	src.mu.Unlock()

	act, err = l.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, act.Complete())
	assert.Equal(t, 2, src.calls)
}

func TestFillMergeNeverOverwrites(t *testing.T) {
	stored := models.Activity{ID: 1, Name: "Morning Ride", AverageHeartrate: f64(120)}
	src := &fakeActivitySource{activities: map[uint64]models.Activity{1: stored}}
	l := NewActivityLedger(storage.New(t.TempDir()), src, nil)

	_, err := l.Get(context.Background(), 1)
	require.NoError(t, err)

	// A later fetch reporting a different average must not replace the
	// stored value.
	conflicting := completeActivity()
	conflicting.AverageHeartrate = f64(999)
	src.mu.Lock()
	src.activities[1] = conflicting
	src.mu.Unlock()

	act, err := l.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 120.0, *act.AverageHeartrate)
	assert.Equal(t, 160.0, *act.MaxHeartrate)
}

func TestGetPropagatesFetchError(t *testing.T) {
	src := &fakeActivitySource{fail: repository.NewFetchError("fake", "1", errors.New("boom"))}
	l := NewActivityLedger(storage.New(t.TempDir()), src, nil)

	_, err := l.Get(context.Background(), 1)
	var fetchErr *repository.FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestActivitySurvivesEviction(t *testing.T) {
	src := &fakeActivitySource{activities: map[uint64]models.Activity{1: completeActivity()}}
	l := NewActivityLedger(storage.New(t.TempDir()), src, nil)

	_, err := l.Get(context.Background(), 1)
	require.NoError(t, err)

	l.Evict(1)

	act, err := l.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, act.Complete())
	assert.Equal(t, 1, src.calls, "evicted complete record reloads from disk, not source")
}
