// Package sheet stores tasks in a CSV spreadsheet. It reads the legacy column
// layouts and always writes the canonical one.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Strob0t/followup/internal/domain"
	"github.com/Strob0t/followup/internal/domain/task"
)

// Store is a file-backed database.TaskStore. Every call reads the file; writes
// replace it atomically through a temp file in the same directory.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store for path. The file need not exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) LoadAll(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) Find(ctx context.Context, id string) (*task.Task, error) {
	tasks, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, fmt.Errorf("get task %s: %w", id, domain.ErrNotFound)
}

func (s *Store) Save(ctx context.Context, t *task.Task) error {
	return s.SaveAll(ctx, []task.Task{*t})
}

// SaveAll merges tasks into the sheet by id and rewrites it.
func (s *Store) SaveAll(ctx context.Context, tasks []task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return err
	}
	pos := make(map[string]int, len(current))
	for i := range current {
		pos[current[i].ID] = i
	}
	for i := range tasks {
		if j, ok := pos[tasks[i].ID]; ok {
			current[j] = tasks[i]
			continue
		}
		pos[tasks[i].ID] = len(current)
		current = append(current, tasks[i])
	}
	sort.SliceStable(current, func(a, b int) bool { return current[a].ID < current[b].ID })
	return s.write(current)
}

// MarkReminded sets the reminder date of an open task and rewrites the sheet.
func (s *Store) MarkReminded(ctx context.Context, id string, date time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return err
	}
	for i := range current {
		if current[i].ID != id {
			continue
		}
		if !current[i].IsOpen() {
			break
		}
		d := task.Day(date)
		current[i].LastReminderDate = &d
		return s.write(current)
	}
	return fmt.Errorf("task %s is not open: %w", id, domain.ErrConflict)
}

// CompleteAll copies the completion fields onto rows that are still open.
func (s *Store) CompleteAll(ctx context.Context, tasks []task.Task) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return nil, err
	}
	pos := make(map[string]int, len(current))
	for i := range current {
		pos[current[i].ID] = i
	}
	applied := []string{}
	for i := range tasks {
		j, ok := pos[tasks[i].ID]
		if !ok || !current[j].IsOpen() {
			continue
		}
		current[j].Status = tasks[i].Status
		current[j].CompletedDate = tasks[i].CompletedDate
		current[j].DaysTaken = tasks[i].DaysTaken
		current[j].PerformanceRating = tasks[i].PerformanceRating
		applied = append(applied, tasks[i].ID)
	}
	if len(applied) == 0 {
		return applied, nil
	}
	if err := s.write(current); err != nil {
		return nil, err
	}
	return applied, nil
}

func (s *Store) load() ([]task.Task, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []task.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open sheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	tasks, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", s.path, err)
	}
	return tasks, nil
}

func (s *Store) write(tasks []task.Task) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".sheet-*.csv")
	if err != nil {
		return fmt.Errorf("create temp sheet: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Write(tmp, tasks); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp sheet: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace sheet: %w", err)
	}
	return nil
}
