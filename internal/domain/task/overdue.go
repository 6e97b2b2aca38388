package task

import (
	"sort"
	"time"
)

// DaysOverdue returns how many whole days past its deadline t is on today,
// or 0 if it is not overdue or has no deadline.
func DaysOverdue(t *Task, today time.Time) int {
	if t.Deadline == nil {
		return 0
	}
	return max(DaysBetween(*t.Deadline, today), 0)
}

// IsOverdue reports whether t is open and its deadline lies strictly before today.
func IsOverdue(t *Task, today time.Time) bool {
	return t.IsOpen() && t.Deadline != nil && Day(*t.Deadline).Before(Day(today))
}

// FindOverdue selects the open tasks whose deadline has passed, most overdue
// first; ties are broken by task_id ascending.
func FindOverdue(tasks []Task, today time.Time) []Task {
	var out []Task
	for i := range tasks {
		if IsOverdue(&tasks[i], today) {
			out = append(out, tasks[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := DaysOverdue(&out[i], today), DaysOverdue(&out[j], today)
		if di != dj {
			return di > dj
		}
		return out[i].ID < out[j].ID
	})
	return out
}
