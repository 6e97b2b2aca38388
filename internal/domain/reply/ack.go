package reply

import (
	"fmt"
	"strings"
)

// Acknowledgment renders the plain-text body sent back to the person who
// replied. It returns "" when there is nothing to acknowledge.
func Acknowledgment(s Summary, name string) string {
	if len(s.Completed) == 0 && len(s.Pending) == 0 {
		return ""
	}
	if strings.TrimSpace(name) == "" {
		name = "there"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	b.WriteString("Thank you for your update. We have processed your response:\n")

	if len(s.Completed) > 0 {
		fmt.Fprintf(&b, "\nCOMPLETED TASKS (%d):\n", len(s.Completed))
		for _, o := range s.Completed {
			writeItem(&b, o)
			if o.Rating != "" {
				fmt.Fprintf(&b, "    Rating: %s\n", o.Rating)
			}
		}
	}
	if len(s.Pending) > 0 {
		fmt.Fprintf(&b, "\nPENDING TASKS (%d):\n", len(s.Pending))
		for _, o := range s.Pending {
			writeItem(&b, o)
		}
		b.WriteString("\nWe will continue to follow up on the pending items.\n")
	}

	b.WriteString("\nBest regards,\nTask Follow-up\n")
	return b.String()
}

func writeItem(b *strings.Builder, o Outcome) {
	fmt.Fprintf(b, "  - [%s] %s\n", o.TaskID, ellipsis(o.Text, 60))
	if o.Notes != "" {
		fmt.Fprintf(b, "    Notes: %s\n", ellipsis(o.Notes, 50))
	}
}

func ellipsis(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
