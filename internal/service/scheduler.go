package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Strob0t/followup/internal/domain/schedule"
	"github.com/Strob0t/followup/internal/port/clock"
)

// PassRunner runs the batch passes.
type PassRunner interface {
	RunReminders(ctx context.Context) (PassSummary, error)
	RunEscalations(ctx context.Context) (PassSummary, error)
}

// Scheduler triggers the reminder and escalation passes when their schedule
// comes due, at most once per occurrence. An occurrence missed earlier today
// fires on the first check after start.
type Scheduler struct {
	runner      PassRunner
	reminders   schedule.Schedule
	escalations schedule.Schedule
	clock       clock.Clock
	tick        time.Duration

	mu              sync.Mutex
	lastReminders   time.Time
	lastEscalations time.Time
}

// NewScheduler creates a Scheduler that checks every tick.
func NewScheduler(runner PassRunner, reminders, escalations schedule.Schedule, clk clock.Clock, tick time.Duration) *Scheduler {
	if tick <= 0 {
		tick = time.Minute
	}
	return &Scheduler{
		runner:      runner,
		reminders:   reminders,
		escalations: escalations,
		clock:       clk,
		tick:        tick,
	}
}

// Run checks the schedules until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("pass scheduler started",
		"reminders", s.reminders.String(),
		"escalations", s.escalations.String(),
		"tick", s.tick,
	)
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("pass scheduler stopped")
			return nil
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Check runs every pass whose schedule came due since its last run.
func (s *Scheduler) Check(ctx context.Context) {
	now := s.clock.Now()

	s.mu.Lock()
	runReminders := s.reminders.Due(s.lastReminders, now)
	if runReminders {
		s.lastReminders = now
	}
	runEscalations := s.escalations.Due(s.lastEscalations, now)
	if runEscalations {
		s.lastEscalations = now
	}
	s.mu.Unlock()

	if runReminders {
		if sum, err := s.runner.RunReminders(ctx); err != nil {
			slog.Error("scheduled reminder pass failed", "run_id", sum.RunID, "error", err)
		}
	}
	if runEscalations {
		if sum, err := s.runner.RunEscalations(ctx); err != nil {
			slog.Error("scheduled escalation pass failed", "run_id", sum.RunID, "error", err)
		}
	}
}
