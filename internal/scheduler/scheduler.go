// Package scheduler triggers alert cycles on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/CryptoAlert/internal/analyze"
)

// CycleRunner runs one pass over all pairs.
type CycleRunner interface {
	RunCycle(ctx context.Context) []analyze.PairResult
}

// Scheduler runs cycles on a cron schedule. Cycles never overlap.
type Scheduler struct {
	Cron   *cron.Cron
	Runner CycleRunner
	Ctx    context.Context

	mu     sync.Mutex
	logger zerolog.Logger
}

// NewScheduler creates a scheduler whose jobs skip a tick while the previous
// cycle is still running and survive panics.
func NewScheduler(ctx context.Context, runner CycleRunner) *Scheduler {
	logger := log.With().Str("component", "scheduler").Logger()
	cl := cronLogger{logger: logger}
	return &Scheduler{
		Cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Runner: runner,
		Ctx:    ctx,
		logger: logger,
	}
}

// Register schedules the cycle every intervalMinutes.
func (s *Scheduler) Register(intervalMinutes int) error {
	if intervalMinutes <= 0 {
		return fmt.Errorf("interval must be positive, got %d", intervalMinutes)
	}
	spec := fmt.Sprintf("@every %dm", intervalMinutes)
	if _, err := s.Cron.AddFunc(spec, s.cycle); err != nil {
		return fmt.Errorf("register alert cycle: %w", err)
	}
	s.logger.Info().Str("spec", spec).Msg("Alert cycle registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for a running cycle to return.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("Scheduler stopped")
}

// RunNow executes a cycle immediately, unless one is already in progress.
func (s *Scheduler) RunNow() {
	s.cycle()
}

func (s *Scheduler) cycle() {
	if !s.mu.TryLock() {
		s.logger.Warn().Msg("Previous cycle still running, skipping")
		return
	}
	defer s.mu.Unlock()

	if s.Ctx.Err() != nil {
		return
	}
	s.Runner.RunCycle(s.Ctx)
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
