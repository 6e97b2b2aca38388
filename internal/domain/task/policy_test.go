package task

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestDeadline(t *testing.T) {
	p := DefaultPolicy()
	created := time.Date(2026, 1, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		priority Priority
		override *int
		want     time.Time
	}{
		{name: "urgent", priority: PriorityUrgent, want: date(2026, 1, 2)},
		{name: "high", priority: PriorityHigh, want: date(2026, 1, 4)},
		{name: "medium", priority: PriorityMedium, want: date(2026, 1, 8)},
		{name: "low", priority: PriorityLow, want: date(2026, 1, 15)},
		{name: "unknown falls back to medium", priority: Priority("WHATEVER"), want: date(2026, 1, 8)},
		{name: "override", priority: PriorityLow, override: intPtr(2), want: date(2026, 1, 3)},
		{name: "zero override", priority: PriorityLow, override: intPtr(0), want: date(2026, 1, 1)},
		{name: "negative override clamps", priority: PriorityLow, override: intPtr(-4), want: date(2026, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Deadline(created, tt.priority, tt.override)
			if !got.Equal(tt.want) {
				t.Errorf("Deadline() = %s, want %s", got.Format(time.DateOnly), tt.want.Format(time.DateOnly))
			}
			if got.Before(Day(created)) {
				t.Errorf("deadline %s precedes created_on", got)
			}
		})
	}
}

func TestShouldRemind(t *testing.T) {
	p := DefaultPolicy()
	deadline := date(2026, 1, 10)

	tests := []struct {
		name     string
		priority Priority
		today    time.Time
		last     *time.Time
		want     bool
	}{
		{name: "before deadline", priority: PriorityUrgent, today: date(2026, 1, 9), want: false},
		{name: "before deadline with stale last", priority: PriorityUrgent, today: date(2026, 1, 9), last: timePtr(date(2025, 12, 1)), want: false},
		{name: "on deadline never reminded", priority: PriorityLow, today: date(2026, 1, 10), want: true},
		{name: "after deadline never reminded", priority: PriorityLow, today: date(2026, 1, 20), want: true},
		{name: "high cadence not elapsed", priority: PriorityHigh, today: date(2026, 1, 11), last: timePtr(date(2026, 1, 10)), want: false},
		{name: "high cadence elapsed", priority: PriorityHigh, today: date(2026, 1, 12), last: timePtr(date(2026, 1, 10)), want: true},
		{name: "urgent daily", priority: PriorityUrgent, today: date(2026, 1, 11), last: timePtr(date(2026, 1, 10)), want: true},
		{name: "urgent same day", priority: PriorityUrgent, today: date(2026, 1, 10), last: timePtr(date(2026, 1, 10)), want: false},
		{name: "low cadence", priority: PriorityLow, today: date(2026, 1, 14), last: timePtr(date(2026, 1, 10)), want: false},
		{name: "low cadence elapsed", priority: PriorityLow, today: date(2026, 1, 15), last: timePtr(date(2026, 1, 10)), want: true},
		{name: "time of day ignored", priority: PriorityHigh, today: time.Date(2026, 1, 12, 0, 5, 0, 0, time.UTC), last: timePtr(time.Date(2026, 1, 10, 23, 0, 0, 0, time.UTC)), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ShouldRemind(tt.priority, deadline, tt.today, tt.last); got != tt.want {
				t.Errorf("ShouldRemind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRemindMonotonic(t *testing.T) {
	p := DefaultPolicy()
	deadline := date(2026, 1, 10)
	last := date(2026, 1, 12)
	for _, pr := range []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow} {
		fired := false
		for d := 0; d < 20; d++ {
			today := deadline.AddDate(0, 0, d)
			got := p.ShouldRemind(pr, deadline, today, &last)
			if fired && !got {
				t.Fatalf("%s: became false again on %s", pr, today.Format(time.DateOnly))
			}
			fired = fired || got
		}
	}
}

func TestNextReminderDate(t *testing.T) {
	p := DefaultPolicy()

	got := p.NextReminderDate(PriorityHigh, date(2026, 1, 4), nil)
	if !got.Equal(date(2026, 1, 6)) {
		t.Errorf("from deadline: got %s", got.Format(time.DateOnly))
	}

	got = p.NextReminderDate(PriorityMedium, date(2026, 1, 4), timePtr(date(2026, 1, 9)))
	if !got.Equal(date(2026, 1, 12)) {
		t.Errorf("from last reminder: got %s", got.Format(time.DateOnly))
	}
}

func TestReminderForTask(t *testing.T) {
	p := DefaultPolicy()

	noDeadline := &Task{ID: "T1", Status: StatusOpen, Priority: PriorityHigh}
	if p.ShouldRemindTask(noDeadline, date(2026, 2, 1)) {
		t.Error("task without deadline must never be due")
	}
	if _, ok := p.NextReminderForTask(noDeadline); ok {
		t.Error("next reminder must be undetermined without deadline")
	}

	done := &Task{ID: "T2", Status: StatusCompleted, Priority: PriorityHigh, Deadline: timePtr(date(2026, 1, 1))}
	if p.ShouldRemindTask(done, date(2026, 2, 1)) {
		t.Error("completed task must never be due")
	}

	open := &Task{ID: "T3", Status: StatusOpen, Priority: PriorityHigh, Deadline: timePtr(date(2026, 1, 1))}
	if !p.ShouldRemindTask(open, date(2026, 1, 1)) {
		t.Error("open task on its deadline should be due")
	}
	next, ok := p.NextReminderForTask(open)
	if !ok || !next.Equal(date(2026, 1, 3)) {
		t.Errorf("next = %s, ok = %v", next, ok)
	}
}

func TestPolicyCustomTables(t *testing.T) {
	p := Policy{
		DeadlineDays: map[Priority]int{PriorityMedium: 10},
		CadenceDays:  map[Priority]int{PriorityUrgent: 4},
	}
	if got := p.DeadlineOffset(PriorityHigh); got != 10 {
		t.Errorf("missing entry should use MEDIUM, got %d", got)
	}
	if got := p.Cadence(PriorityUrgent); got != 4 {
		t.Errorf("cadence urgent = %d", got)
	}
	if got := p.Cadence(PriorityLow); got != fallbackCadenceDays {
		t.Errorf("empty table should use fallback, got %d", got)
	}
}
