// Package jobs runs the reminder sweep and report archive on a schedule.
// It uses robfig/cron for cron-based job scheduling.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultJobTimeout bounds a run when the scheduler is given no timeout
const DefaultJobTimeout = 10 * time.Minute

// Func is one run of a scheduled job. ctx expires after the scheduler's
// per-run timeout.
type Func func(ctx context.Context) error

// Scheduler runs named jobs on cron expressions, each run under its own
// timeout context.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	timeout time.Duration
	mu      sync.Mutex
	jobs    map[string]cron.EntryID
}

// NewScheduler creates a scheduler whose runs are cancelled after timeout
func NewScheduler(logger *zap.Logger, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	cronLog := cronLogger{logger.Sugar()}
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithLogger(cronLog), cron.WithChain(
			cron.SkipIfStillRunning(cronLog),
			cron.Recover(cronLog),
		)),
		logger:  logger,
		timeout: timeout,
		jobs:    make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler. Jobs added before this call will begin running.
func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler", zap.Strings("jobs", s.JobNames()))
	s.cron.Start()
}

// Stop stops the scheduler. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}

// AddJob schedules job under name. cronExpr takes an optional seconds field:
//   - "0 0 7 * * *" - every day at 07:00
//   - "@monthly"    - midnight on the first of the month
func (s *Scheduler) AddJob(name, cronExpr string, job Func) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info("added scheduled job",
		zap.String("job_name", name),
		zap.String("cron_expr", cronExpr))
	return nil
}

func (s *Scheduler) run(name string, job Func) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	err := job(ctx)
	fields := []zap.Field{
		zap.String("job_name", name),
		zap.Duration("duration", time.Since(started)),
	}
	if err != nil {
		s.logger.Error("scheduled job failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Info("completed scheduled job", fields...)
}

// JobNames returns the registered job names in order
func (s *Scheduler) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// cronLogger routes cron's own messages (skipped runs, recovered panics) to zap
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
