// Package resilient decorates the store and notifiers with bounded retry and
// circuit breaking.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Strob0t/followup/internal/domain"
	"github.com/Strob0t/followup/internal/domain/escalation"
	"github.com/Strob0t/followup/internal/domain/task"
	"github.com/Strob0t/followup/internal/port/database"
	"github.com/Strob0t/followup/internal/resilience"
)

// Options tunes retry and breaking.
type Options struct {
	Attempts       int
	Backoff        time.Duration
	MaxFailures    int
	BreakerTimeout time.Duration
}

// Store wraps a database.Store. Transient failures are retried; a failure that
// survives every attempt is wrapped with domain.ErrInfrastructure.
type Store struct {
	inner   database.Store
	breaker *resilience.Breaker
	opts    Options
}

// NewStore decorates inner.
func NewStore(inner database.Store, opts Options) *Store {
	return &Store{
		inner: inner,
		breaker: resilience.NewBreaker(opts.MaxFailures, opts.BreakerTimeout,
			resilience.WithFailurePredicate(isTransient),
			resilience.WithStateChange(func(from, to resilience.State) {
				slog.Warn("store circuit breaker", "from", from, "to", to)
			}),
		),
		opts: opts,
	}
}

// isTransient reports whether err is worth retrying and counts against the breaker.
func isTransient(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

func (s *Store) do(ctx context.Context, op string, fn func(context.Context) error) error {
	err := resilience.Retry(ctx, s.opts.Attempts, s.opts.Backoff, func(ctx context.Context) error {
		err := s.breaker.Execute(func() error { return fn(ctx) })
		if err != nil && !isTransient(err) && !errors.Is(err, resilience.ErrCircuitOpen) {
			return resilience.Permanent(err)
		}
		return err
	})
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInfrastructure, err)
	}
	return err
}

func (s *Store) LoadAll(ctx context.Context) ([]task.Task, error) {
	var out []task.Task
	err := s.do(ctx, "load tasks", func(ctx context.Context) error {
		var err error
		out, err = s.inner.LoadAll(ctx)
		return err
	})
	return out, err
}

func (s *Store) Find(ctx context.Context, id string) (*task.Task, error) {
	var out *task.Task
	err := s.do(ctx, "find task", func(ctx context.Context) error {
		var err error
		out, err = s.inner.Find(ctx, id)
		return err
	})
	return out, err
}

func (s *Store) Save(ctx context.Context, t *task.Task) error {
	return s.do(ctx, "save task", func(ctx context.Context) error { return s.inner.Save(ctx, t) })
}

func (s *Store) SaveAll(ctx context.Context, tasks []task.Task) error {
	return s.do(ctx, "save tasks", func(ctx context.Context) error { return s.inner.SaveAll(ctx, tasks) })
}

func (s *Store) MarkReminded(ctx context.Context, id string, date time.Time) error {
	return s.do(ctx, "mark reminded", func(ctx context.Context) error { return s.inner.MarkReminded(ctx, id, date) })
}

func (s *Store) CompleteAll(ctx context.Context, tasks []task.Task) ([]string, error) {
	var out []string
	err := s.do(ctx, "complete tasks", func(ctx context.Context) error {
		var err error
		out, err = s.inner.CompleteAll(ctx, tasks)
		return err
	})
	return out, err
}

func (s *Store) HasEscalation(ctx context.Context, key string) (bool, error) {
	var out bool
	err := s.do(ctx, "check escalation", func(ctx context.Context) error {
		var err error
		out, err = s.inner.HasEscalation(ctx, key)
		return err
	})
	return out, err
}

func (s *Store) RecordEscalation(ctx context.Context, e *escalation.Entry) error {
	return s.do(ctx, "record escalation", func(ctx context.Context) error { return s.inner.RecordEscalation(ctx, e) })
}

func (s *Store) ListEscalations(ctx context.Context, taskID string) ([]escalation.Entry, error) {
	var out []escalation.Entry
	err := s.do(ctx, "list escalations", func(ctx context.Context) error {
		var err error
		out, err = s.inner.ListEscalations(ctx, taskID)
		return err
	})
	return out, err
}

func (s *Store) LookupEmail(ctx context.Context, name string) (string, error) {
	var out string
	err := s.do(ctx, "lookup email", func(ctx context.Context) error {
		var err error
		out, err = s.inner.LookupEmail(ctx, name)
		return err
	})
	return out, err
}
