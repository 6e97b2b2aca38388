// Package database defines the persistence ports consumed by the lifecycle core.
package database

import (
	"context"
	"time"

	"github.com/Strob0t/followup/internal/domain/escalation"
	"github.com/Strob0t/followup/internal/domain/task"
)

// TaskStore loads and persists tasks. Find returns domain.ErrNotFound for an
// unknown id. Save inserts or replaces the task with the same id.
//
// MarkReminded and CompleteAll only touch rows that are still OPEN and only
// the columns they own, so a pass working from an older snapshot cannot undo
// a completion written in the meantime.
type TaskStore interface {
	LoadAll(ctx context.Context) ([]task.Task, error)
	Find(ctx context.Context, id string) (*task.Task, error)
	Save(ctx context.Context, t *task.Task) error
	SaveAll(ctx context.Context, tasks []task.Task) error

	// MarkReminded sets the last reminder date of an open task. It returns
	// domain.ErrConflict when no open task has that id.
	MarkReminded(ctx context.Context, id string, date time.Time) error
	// CompleteAll writes the completion fields of tasks whose stored status
	// is still OPEN, atomically, and returns the ids it applied.
	CompleteAll(ctx context.Context, tasks []task.Task) ([]string, error)
}

// EscalationLog records successful escalations. RecordEscalation returns
// domain.ErrConflict if an entry with the same key exists.
type EscalationLog interface {
	HasEscalation(ctx context.Context, key string) (bool, error)
	RecordEscalation(ctx context.Context, e *escalation.Entry) error
	ListEscalations(ctx context.Context, taskID string) ([]escalation.Entry, error)
}

// Directory maps a person's name to an e-mail address. LookupEmail returns
// domain.ErrNotFound when nobody matches.
type Directory interface {
	LookupEmail(ctx context.Context, name string) (string, error)
}

// Store is the full persistence surface provided by the database adapter.
type Store interface {
	TaskStore
	EscalationLog
	Directory
}
