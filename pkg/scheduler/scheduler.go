package scheduler

import (
	"fmt"
	"time"

	applogger "PortTrack/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Job is a unit of background work run on a schedule.
type Job interface {
	Name() string
	Run() error
}

// Scheduler manages background jobs on fixed intervals. Job failures
// are logged at the cycle boundary and never stop the schedule.
type Scheduler struct {
	cron *cron.Cron
	log  *applogger.Logger
}

// New creates a new scheduler.
func New(log *applogger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

// Every registers job to run once per interval.
func (s *Scheduler) Every(interval time.Duration, job Job) error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		start := time.Now()
		if err := job.Run(); err != nil {
			s.log.Error("job failed",
				applogger.String("job", job.Name()),
				applogger.Error(err),
			)
			return
		}
		s.log.Debug("job completed",
			applogger.String("job", job.Name()),
			applogger.Duration("took", time.Since(start)),
		)
	})
	if err != nil {
		return fmt.Errorf("register job %s: %w", job.Name(), err)
	}

	s.log.Info("job registered",
		applogger.String("job", job.Name()),
		applogger.Duration("interval", interval),
	)
	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	return job.Run()
}
