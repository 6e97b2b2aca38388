// Package task defines the Task domain entity and the pure lifecycle rules
// applied to it: priority classification, deadline derivation, reminder
// cadence, overdue detection and completion rating.
package task

import (
	"errors"
	"strings"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusCompleted Status = "COMPLETED"
)

// Priority is the urgency class assigned once at creation.
type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Valid reports whether p is one of the four known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rating grades a completion against the deadline.
type Rating string

const (
	RatingOnTime       Rating = "On Time"
	RatingSlightlyLate Rating = "Slightly Late"
	RatingLate         Rating = "Late"
)

// Task is a delegated work item tracked from creation to completion.
type Task struct {
	ID                string     `json:"task_id"`
	SourceID          string     `json:"source_id,omitempty"`
	Owner             string     `json:"owner"`
	Text              string     `json:"text"`
	Status            Status     `json:"status"`
	Priority          Priority   `json:"priority"`
	CreatedBy         string     `json:"created_by,omitempty"`
	CreatedOn         time.Time  `json:"created_on"`
	Deadline          *time.Time `json:"deadline,omitempty"`
	LastReminderDate  *time.Time `json:"last_reminder_date,omitempty"`
	CompletedDate     *time.Time `json:"completed_date,omitempty"`
	DaysTaken         *int       `json:"days_taken,omitempty"`
	PerformanceRating Rating     `json:"performance_rating,omitempty"`
}

// IsOpen reports whether the task still awaits completion.
func (t *Task) IsOpen() bool { return t.Status == StatusOpen }

// Validate checks the structural invariants of a stored task.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("task_id is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		return errors.New("text is required")
	}
	if t.CreatedOn.IsZero() {
		return errors.New("created_on is required")
	}
	if t.Deadline != nil && Day(*t.Deadline).Before(Day(t.CreatedOn)) {
		return errors.New("deadline must not precede created_on")
	}
	if t.Status == StatusCompleted && (t.CompletedDate == nil || t.DaysTaken == nil || t.PerformanceRating == "") {
		return errors.New("completed task is missing completion fields")
	}
	return nil
}

// CreateRequest holds the caller-supplied fields for a new task.
type CreateRequest struct {
	ID           string     `json:"task_id,omitempty"`
	SourceID     string     `json:"source_id,omitempty"`
	Owner        string     `json:"owner"`
	Text         string     `json:"text"`
	Subject      string     `json:"subject,omitempty"`
	CreatedBy    string     `json:"created_by,omitempty"`
	DeadlineDays *int       `json:"deadline_days,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

// Validate checks the request before classification.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text is required")
	}
	if strings.TrimSpace(r.Owner) == "" {
		return errors.New("owner is required")
	}
	if r.DeadlineDays != nil && *r.DeadlineDays < 0 {
		return errors.New("deadline_days must be >= 0")
	}
	return nil
}

// Day truncates t to its calendar date, expressed at UTC midnight so that
// day arithmetic is free of DST shifts.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b (negative if b is
// before a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)) / (24 * time.Hour))
}

func ptr[T any](v T) *T { return &v }
