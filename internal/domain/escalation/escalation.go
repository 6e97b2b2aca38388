// Package escalation defines the record kept for every overdue task that was
// reported to a supervisor.
package escalation

import (
	"fmt"
	"strings"
	"time"

	"github.com/Strob0t/followup/internal/domain/task"
)

// Entry is one successful escalation.
type Entry struct {
	ID          string        `json:"id"`
	Key         string        `json:"key"`
	TaskID      string        `json:"task_id"`
	Owner       string        `json:"owner"`
	Text        string        `json:"text"`
	Priority    task.Priority `json:"priority"`
	Deadline    time.Time     `json:"deadline"`
	DaysOverdue int           `json:"days_overdue"`
	Recipient   string        `json:"recipient"`
	EscalatedAt time.Time     `json:"escalated_at"`
}

// Key is the idempotency key of an escalation of taskID on the calendar day
// of at. At most one escalation per task and day is sent.
func Key(taskID string, at time.Time) string {
	return taskID + ":" + task.Day(at).Format(time.DateOnly)
}

// NewEntry builds the log entry for escalating t on at.
func NewEntry(id string, t *task.Task, recipient string, at time.Time) Entry {
	e := Entry{
		ID:          id,
		Key:         Key(t.ID, at),
		TaskID:      t.ID,
		Owner:       t.Owner,
		Text:        t.Text,
		Priority:    t.Priority,
		DaysOverdue: task.DaysOverdue(t, at),
		Recipient:   recipient,
		EscalatedAt: at,
	}
	if t.Deadline != nil {
		e.Deadline = *t.Deadline
	}
	return e
}

// Subject is the mail subject of an escalation.
func Subject(t *task.Task, daysOverdue int) string {
	return fmt.Sprintf("Overdue task %s: %d day(s) past deadline", t.ID, daysOverdue)
}

// Body renders the mail body sent to the supervisor.
func Body(t *task.Task, daysOverdue int) string {
	var b strings.Builder
	b.WriteString("The following task is past its deadline and still open.\n\n")
	fmt.Fprintf(&b, "Owner:        %s\n", t.Owner)
	fmt.Fprintf(&b, "Task ID:      %s\n", t.ID)
	fmt.Fprintf(&b, "Task:         %s\n", t.Text)
	fmt.Fprintf(&b, "Priority:     %s\n", t.Priority)
	if t.Deadline != nil {
		fmt.Fprintf(&b, "Deadline:     %s\n", t.Deadline.Format(time.DateOnly))
	}
	fmt.Fprintf(&b, "Days overdue: %d\n", daysOverdue)
	if t.SourceID != "" {
		fmt.Fprintf(&b, "Source:       %s\n", t.SourceID)
	}
	fmt.Fprintf(&b, "Created on:   %s\n", t.CreatedOn.Format(time.DateOnly))
	return b.String()
}
