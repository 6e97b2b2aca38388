package task

import "time"

// Policy holds the deadline offsets and reminder cadence per priority.
// Both tables are keyed by priority; a missing or unknown priority falls back
// to the MEDIUM entry.
type Policy struct {
	DeadlineDays map[Priority]int `yaml:"deadline_days" json:"deadline_days"`
	CadenceDays  map[Priority]int `yaml:"cadence_days" json:"cadence_days"`
}

// DefaultPolicy returns the canonical deadline and cadence tables.
func DefaultPolicy() Policy {
	return Policy{
		DeadlineDays: map[Priority]int{
			PriorityUrgent: 1,
			PriorityHigh:   3,
			PriorityMedium: 7,
			PriorityLow:    14,
		},
		CadenceDays: map[Priority]int{
			PriorityUrgent: 1,
			PriorityHigh:   2,
			PriorityMedium: 3,
			PriorityLow:    5,
		},
	}
}

const (
	fallbackDeadlineDays = 7
	fallbackCadenceDays  = 3
)

// DeadlineOffset returns the number of days from creation to deadline.
func (p Policy) DeadlineOffset(pr Priority) int {
	return lookup(p.DeadlineDays, pr, fallbackDeadlineDays)
}

// Cadence returns the minimum number of days between two reminders.
func (p Policy) Cadence(pr Priority) int {
	return lookup(p.CadenceDays, pr, fallbackCadenceDays)
}

func lookup(table map[Priority]int, pr Priority, fallback int) int {
	if v, ok := table[pr]; ok && v > 0 {
		return v
	}
	if v, ok := table[PriorityMedium]; ok && v > 0 {
		return v
	}
	return fallback
}

// Deadline derives the due date of a task created at createdOn. A non-nil
// overrideDays replaces the priority offset; negative overrides clamp to 0.
func (p Policy) Deadline(createdOn time.Time, pr Priority, overrideDays *int) time.Time {
	days := p.DeadlineOffset(pr)
	if overrideDays != nil {
		days = max(*overrideDays, 0)
	}
	return Day(createdOn).AddDate(0, 0, days)
}

// ShouldRemind decides whether a reminder is due today. No reminder fires
// before the deadline; the first one fires on or after it; later ones wait
// for the priority's cadence to elapse.
func (p Policy) ShouldRemind(pr Priority, deadline time.Time, today time.Time, last *time.Time) bool {
	if Day(today).Before(Day(deadline)) {
		return false
	}
	if last == nil {
		return true
	}
	return DaysBetween(*last, today) >= p.Cadence(pr)
}

// NextReminderDate returns the earliest date a reminder may fire: the base
// (last reminder, else deadline) plus the cadence.
func (p Policy) NextReminderDate(pr Priority, deadline time.Time, last *time.Time) time.Time {
	base := deadline
	if last != nil {
		base = *last
	}
	return Day(base).AddDate(0, 0, p.Cadence(pr))
}

// ShouldRemindTask applies ShouldRemind to t. Completed tasks and tasks
// without a deadline are never due.
func (p Policy) ShouldRemindTask(t *Task, today time.Time) bool {
	if !t.IsOpen() || t.Deadline == nil {
		return false
	}
	return p.ShouldRemind(t.Priority, *t.Deadline, today, t.LastReminderDate)
}

// NextReminderForTask returns the next reminder date of t. ok is false when
// the date is undetermined because the task has no deadline.
func (p Policy) NextReminderForTask(t *Task) (next time.Time, ok bool) {
	if t.Deadline == nil {
		return time.Time{}, false
	}
	return p.NextReminderDate(t.Priority, *t.Deadline, t.LastReminderDate), true
}
