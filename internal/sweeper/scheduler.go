package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the sweeper once on Start and then on a cron schedule until
// Stop. It is created and owned by the process entry point.
type Scheduler struct {
	sweeper *Sweeper
	cron    *cron.Cron
	timeout time.Duration
	logger  *log.Logger

	// base context of every sweep; Stop cancels it
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewScheduler validates the schedule (standard cron or descriptors such as "@every 24h").
func NewScheduler(sweeper *Sweeper, schedule string, timeout time.Duration, logger *log.Logger) (*Scheduler, error) {
	cl := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		sweeper: sweeper,
		timeout: timeout,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
	}

	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start sweeps immediately, then starts the recurring schedule.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return
	}
	s.started = true

	s.runOnce()
	s.cron.Start()
	s.logger.Info("sweep scheduler started", "next", s.next())
}

// Stop halts the schedule and waits for a running sweep to finish. When ctx
// ends first the running sweep is cancelled and Stop still waits for it to
// return, so no statement is issued after Stop returns. The error reports
// that the sweep was cut short.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	done := s.cron.Stop()
	defer s.cancel()

	select {
	case <-done.Done():
		s.logger.Info("sweep scheduler stopped")
		return nil
	case <-ctx.Done():
	}

	s.logger.Warn("sweep still running at shutdown, cancelling it")
	s.cancel()
	<-done.Done()
	return fmt.Errorf("stop sweep scheduler: %w", ctx.Err())
}

// runOnce never propagates a failure; the next cycle retries on its own.
func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	if _, err := s.sweeper.Run(ctx); err != nil {
		s.logger.Error("sweep failed, skipping cycle", "error", err)
	}
}

func (s *Scheduler) next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// cronLogger adapts charmbracelet/log to cron.Logger.
type cronLogger struct {
	logger *log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
