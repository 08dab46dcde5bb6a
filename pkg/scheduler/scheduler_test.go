package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applogger "PortTrack/pkg/logger"
)

type countingJob struct {
	runs int64
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run() error {
	atomic.AddInt64(&j.runs, 1)
	return j.err
}

func TestEveryRunsJobOnInterval(t *testing.T) {
	s := New(applogger.Nop())
	job := &countingJob{}

	require.NoError(t, s.Every(time.Second, job))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&job.runs) >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestJobFailureDoesNotStopSchedule(t *testing.T) {
	s := New(applogger.Nop())
	job := &countingJob{err: errors.New("boom")}

	require.NoError(t, s.Every(time.Second, job))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&job.runs) >= 2
	}, 5*time.Second, 50*time.Millisecond)
}

func TestRunNow(t *testing.T) {
	s := New(applogger.Nop())
	job := &countingJob{}

	require.NoError(t, s.RunNow(job))
	assert.Equal(t, int64(1), atomic.LoadInt64(&job.runs))

	job.err = errors.New("boom")
	assert.Error(t, s.RunNow(job))
}
