package reply

import (
	"strings"
	"time"

	"github.com/Strob0t/followup/internal/domain/task"
)

// Reasons reported for updates that change nothing.
const (
	ReasonUnknownTask      = "unknown task id"
	ReasonUnknownStatus    = "status not recognised"
	ReasonAlreadyCompleted = "task already completed"
)

// Outcome describes what an update meant for one task.
type Outcome struct {
	TaskID    string      `json:"task_id"`
	Text      string      `json:"text,omitempty"`
	RawStatus string      `json:"raw_status,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	Rating    task.Rating `json:"performance_rating,omitempty"`
	Reason    string      `json:"reason,omitempty"`
}

// Summary groups outcomes by effect.
type Summary struct {
	Completed []Outcome `json:"completed"`
	Pending   []Outcome `json:"pending"`
	Unmatched []Outcome `json:"unmatched"`
}

// Empty reports whether nothing was recognised at all.
func (s Summary) Empty() bool {
	return len(s.Completed) == 0 && len(s.Pending) == 0 && len(s.Unmatched) == 0
}

// Plan is the pure result of applying updates to a task snapshot: what to
// report and which tasks to persist.
type Plan struct {
	Summary Summary     `json:"summary"`
	Changes []task.Task `json:"-"`
}

// PlanUpdates evaluates updates against tasks at now. It never mutates its
// inputs. Completions of OPEN tasks become Changes; everything else is only
// reported. Completing an already-completed task is a no-op.
func PlanUpdates(tasks []task.Task, updates []Update, now time.Time) Plan {
	byID := make(map[string]task.Task, len(tasks))
	for _, t := range tasks {
		byID[strings.ToUpper(t.ID)] = t
	}

	var p Plan
	for _, u := range updates {
		key := strings.ToUpper(u.TaskID)
		t, ok := byID[key]
		o := Outcome{TaskID: u.TaskID, RawStatus: u.RawStatus, Notes: u.Notes}
		if !ok {
			o.Reason = ReasonUnknownTask
			p.Summary.Unmatched = append(p.Summary.Unmatched, o)
			continue
		}
		o.TaskID, o.Text = t.ID, t.Text

		switch u.Resolution() {
		case ResolutionCompleted:
			done, err := t.Complete(now)
			if err != nil {
				o.Reason = ReasonAlreadyCompleted
				p.Summary.Unmatched = append(p.Summary.Unmatched, o)
				continue
			}
			byID[key] = done
			o.Rating = done.PerformanceRating
			p.Summary.Completed = append(p.Summary.Completed, o)
			p.Changes = append(p.Changes, done)
		case ResolutionPending:
			if !t.IsOpen() {
				o.Reason = ReasonAlreadyCompleted
				p.Summary.Unmatched = append(p.Summary.Unmatched, o)
				continue
			}
			p.Summary.Pending = append(p.Summary.Pending, o)
		default:
			o.Reason = ReasonUnknownStatus
			p.Summary.Unmatched = append(p.Summary.Unmatched, o)
		}
	}
	return p
}

// Settle reconciles p with the ids the store actually completed. A planned
// completion the store did not apply lost a race with another writer; it is
// reported as already completed and dropped from Changes.
func (p Plan) Settle(applied []string) Plan {
	ok := make(map[string]bool, len(applied))
	for _, id := range applied {
		ok[id] = true
	}

	out := Plan{Summary: Summary{
		Pending:   p.Summary.Pending,
		Unmatched: append([]Outcome(nil), p.Summary.Unmatched...),
	}}
	for _, o := range p.Summary.Completed {
		if ok[o.TaskID] {
			out.Summary.Completed = append(out.Summary.Completed, o)
			continue
		}
		o.Rating = ""
		o.Reason = ReasonAlreadyCompleted
		out.Summary.Unmatched = append(out.Summary.Unmatched, o)
	}
	for _, t := range p.Changes {
		if ok[t.ID] {
			out.Changes = append(out.Changes, t)
		}
	}
	return out
}
