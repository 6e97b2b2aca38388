package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Strob0t/followup/internal/domain"
	"github.com/Strob0t/followup/internal/domain/escalation"
	"github.com/Strob0t/followup/internal/domain/task"
)

func (s *Store) HasEscalation(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM escalations WHERE key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check escalation %s: %w", key, err)
	}
	return exists, nil
}

// RecordEscalation inserts e. A second entry with the same key is rejected
// with domain.ErrConflict.
func (s *Store) RecordEscalation(ctx context.Context, e *escalation.Entry) error {
	var deadline *time.Time
	if !e.Deadline.IsZero() {
		deadline = dateOrNil(&e.Deadline)
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO escalations (id, key, task_id, owner, text, priority, deadline, days_overdue, recipient, escalated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (key) DO NOTHING`,
		e.ID, e.Key, e.TaskID, e.Owner, e.Text, string(e.Priority), deadline, e.DaysOverdue, e.Recipient, e.EscalatedAt)
	if err != nil {
		return fmt.Errorf("record escalation %s: %w", e.Key, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record escalation %s: %w", e.Key, domain.ErrConflict)
	}
	return nil
}

// ListEscalations returns the escalations of taskID, newest first.
func (s *Store) ListEscalations(ctx context.Context, taskID string) ([]escalation.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, key, task_id, owner, text, priority, deadline, days_overdue, recipient, escalated_at
		 FROM escalations WHERE task_id = $1 ORDER BY escalated_at DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list escalations %s: %w", taskID, err)
	}
	defer rows.Close()

	var entries []escalation.Entry
	for rows.Next() {
		var (
			e        escalation.Entry
			priority string
			deadline *time.Time
		)
		if err := rows.Scan(&e.ID, &e.Key, &e.TaskID, &e.Owner, &e.Text, &priority, &deadline,
			&e.DaysOverdue, &e.Recipient, &e.EscalatedAt); err != nil {
			return nil, fmt.Errorf("scan escalation: %w", err)
		}
		e.Priority = task.Priority(priority)
		if d := utcDate(deadline); d != nil {
			e.Deadline = *d
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list escalations %s: %w", taskID, err)
	}
	return orEmpty(entries), nil
}
