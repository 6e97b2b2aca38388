package task

import (
	"fmt"
	"strings"
	"time"
)

// ReminderSubject is the mail subject of a reminder.
const ReminderSubject = "Pending action items: reminder"

// ReminderBody renders one reminder listing every due task of owner. The
// "Task ID:" lines are the format replies are expected to quote back.
func ReminderBody(owner string, tasks []Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", owner)
	b.WriteString("This is a gentle reminder for the following pending action items:\n")
	for i := range tasks {
		t := &tasks[i]
		fmt.Fprintf(&b, "\n- Task ID: %s\n", t.ID)
		fmt.Fprintf(&b, "  Task:    %s\n", t.Text)
		if t.Deadline != nil {
			fmt.Fprintf(&b, "  Due:     %s\n", t.Deadline.Format(time.DateOnly))
		}
		if t.SourceID != "" {
			fmt.Fprintf(&b, "  Source:  %s\n", t.SourceID)
		}
	}
	b.WriteString("\nKindly let us know once completed.\n")
	b.WriteString("\nRegards,\nTask Follow-up\n")
	return b.String()
}
