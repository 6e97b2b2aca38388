package task

import (
	"errors"
	"time"
)

// ErrAlreadyCompleted is returned when completing a task that is terminal.
var ErrAlreadyCompleted = errors.New("task already completed")

// RateCompletion grades a completion at now against deadline at day
// granularity: on or before the deadline day is On Time, one or two days
// late is Slightly Late, anything later is Late.
func RateCompletion(deadline *time.Time, now time.Time) Rating {
	if deadline == nil {
		return RatingOnTime
	}
	late := DaysBetween(*deadline, now)
	switch {
	case late <= 0:
		return RatingOnTime
	case late <= 2:
		return RatingSlightlyLate
	default:
		return RatingLate
	}
}

// Complete returns a copy of t moved to COMPLETED at now with its completion
// fields filled in. The receiver is not modified.
func (t Task) Complete(now time.Time) (Task, error) {
	if t.Status == StatusCompleted {
		return t, ErrAlreadyCompleted
	}
	taken := max(int(now.Sub(t.CreatedOn)/(24*time.Hour)), 0)
	t.Status = StatusCompleted
	t.CompletedDate = ptr(now)
	t.DaysTaken = ptr(taken)
	t.PerformanceRating = RateCompletion(t.Deadline, now)
	return t, nil
}
