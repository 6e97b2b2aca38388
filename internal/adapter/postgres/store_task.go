package postgres

import (
	"context"
	"fmt"

	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/followup/internal/domain"
	"github.com/Strob0t/followup/internal/domain/task"
)

const taskColumns = `id, source_id, owner, text, status, priority, created_by, created_on,
	deadline, last_reminder_date, completed_date, days_taken, performance_rating`

const upsertTask = `INSERT INTO tasks (` + taskColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO UPDATE SET
		source_id = EXCLUDED.source_id,
		owner = EXCLUDED.owner,
		text = EXCLUDED.text,
		status = EXCLUDED.status,
		priority = EXCLUDED.priority,
		created_by = EXCLUDED.created_by,
		created_on = EXCLUDED.created_on,
		deadline = EXCLUDED.deadline,
		last_reminder_date = EXCLUDED.last_reminder_date,
		completed_date = EXCLUDED.completed_date,
		days_taken = EXCLUDED.days_taken,
		performance_rating = EXCLUDED.performance_rating,
		updated_at = now()`

const markReminded = `UPDATE tasks SET last_reminder_date = $2, updated_at = now()
	WHERE id = $1 AND status = $3`

const completeTask = `UPDATE tasks SET
		status = $2,
		completed_date = $3,
		days_taken = $4,
		performance_rating = $5,
		updated_at = now()
	WHERE id = $1 AND status = $6`

func scanTask(row scannable) (task.Task, error) {
	var (
		t                        task.Task
		status, priority, rating string
	)
	err := row.Scan(&t.ID, &t.SourceID, &t.Owner, &t.Text, &status, &priority, &t.CreatedBy, &t.CreatedOn,
		&t.Deadline, &t.LastReminderDate, &t.CompletedDate, &t.DaysTaken, &rating)
	if err != nil {
		return t, err
	}
	t.Status = task.Status(status)
	t.Priority = task.Priority(priority)
	t.PerformanceRating = task.Rating(rating)
	t.Deadline = utcDate(t.Deadline)
	t.LastReminderDate = utcDate(t.LastReminderDate)
	return t, nil
}

func taskArgs(t *task.Task) []any {
	return []any{
		t.ID, t.SourceID, t.Owner, t.Text, string(t.Status), string(t.Priority), t.CreatedBy, t.CreatedOn,
		dateOrNil(t.Deadline), dateOrNil(t.LastReminderDate), t.CompletedDate, t.DaysTaken, string(t.PerformanceRating),
	}
}

// LoadAll returns every task ordered by id.
func (s *Store) LoadAll(ctx context.Context) ([]task.Task, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return orEmpty(tasks), nil
}

func (s *Store) Find(ctx context.Context, id string) (*task.Task, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFoundWrap(err, "get task %s", id)
	}
	return &t, nil
}

func (s *Store) Save(ctx context.Context, t *task.Task) error {
	if _, err := s.pool.Exec(ctx, upsertTask, taskArgs(t)...); err != nil {
		return fmt.Errorf("save task %s: %w", t.ID, err)
	}
	return nil
}

// SaveAll upserts tasks in one transaction; either all rows land or none.
func (s *Store) SaveAll(ctx context.Context, tasks []task.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range tasks {
			batch.Queue(upsertTask, taskArgs(&tasks[i])...)
		}
		br := tx.SendBatch(ctx, batch)
		for i := range tasks {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("save task %s: %w", tasks[i].ID, err)
			}
		}
		return br.Close()
	})
}

// MarkReminded records the reminder date of an open task.
func (s *Store) MarkReminded(ctx context.Context, id string, date time.Time) error {
	tag, err := s.pool.Exec(ctx, markReminded, id, dateOrNil(&date), string(task.StatusOpen))
	if err != nil {
		return fmt.Errorf("mark task %s reminded: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s is not open: %w", id, domain.ErrConflict)
	}
	return nil
}

// CompleteAll applies completions in one transaction. Rows that are no longer
// OPEN are skipped and left out of the returned ids.
func (s *Store) CompleteAll(ctx context.Context, tasks []task.Task) ([]string, error) {
	if len(tasks) == 0 {
		return []string{}, nil
	}
	var applied []string
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		applied = applied[:0]
		batch := &pgx.Batch{}
		for i := range tasks {
			t := &tasks[i]
			batch.Queue(completeTask, t.ID, string(t.Status), t.CompletedDate, t.DaysTaken,
				string(t.PerformanceRating), string(task.StatusOpen))
		}
		br := tx.SendBatch(ctx, batch)
		for i := range tasks {
			tag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return fmt.Errorf("complete task %s: %w", tasks[i].ID, err)
			}
			if tag.RowsAffected() == 1 {
				applied = append(applied, tasks[i].ID)
			}
		}
		return br.Close()
	})
	if err != nil {
		return nil, err
	}
	return orEmpty(applied), nil
}
