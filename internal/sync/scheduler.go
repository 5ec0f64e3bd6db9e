package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler fires the stats and matchlogs jobs on their cron schedules
// in the configured timezone. Jobs are serialized: a trigger that fires
// while another job is running is skipped, not queued.
type Scheduler struct {
	cron    *cron.Cron
	runner  *Runner
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	running bool
}

// NewScheduler wires the two roster jobs onto their cron expressions.
func NewScheduler(runner *Runner, timezone, statsSpec, matchlogsSpec string, jobTimeout time.Duration, logger *slog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone %q: %w", timezone, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		runner:  runner,
		logger:  logger,
		timeout: jobTimeout,
	}

	if _, err := s.cron.AddFunc(statsSpec, func() {
		s.trigger("stats", s.runner.SyncStats)
	}); err != nil {
		return nil, fmt.Errorf("schedule stats job %q: %w", statsSpec, err)
	}
	if _, err := s.cron.AddFunc(matchlogsSpec, func() {
		s.trigger("matchlogs", s.runner.SyncMatchlogs)
	}); err != nil {
		return nil, fmt.Errorf("schedule matchlogs job %q: %w", matchlogsSpec, err)
	}
	return s, nil
}

// Start begins firing schedules in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", "next_runs", s.NextRuns())
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// Enabled reports whether a scheduler exists at all. Nil-safe, so API
// handlers can hold a nil *Scheduler when scheduling is disabled.
func (s *Scheduler) Enabled() bool { return s != nil }

// Running reports whether a job is currently executing. Nil-safe.
func (s *Scheduler) Running() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRuns returns the next fire time of every schedule. Nil-safe.
func (s *Scheduler) NextRuns() []time.Time {
	if s == nil {
		return nil
	}
	entries := s.cron.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Next)
	}
	return out
}

// trigger runs one job unless another is already in flight.
func (s *Scheduler) trigger(name string, job func(context.Context) (*Report, error)) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Skipping scheduled job, another is running", "job", name)
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if _, err := job(ctx); err != nil {
		s.logger.Error("Scheduled job failed", "job", name, "error", err)
	}
}
