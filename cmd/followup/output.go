package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/Strob0t/followup/internal/domain/task"
	"github.com/Strob0t/followup/internal/service"
)

// tableOutput reports whether results should be printed as tables: stdout is
// a terminal and --json was not given.
func (a *app) tableOutput() bool {
	return !a.jsonOut && term.IsTerminal(int(os.Stdout.Fd()))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit prints v as JSON or through table when the output is a terminal.
func (a *app) emit(v any, table func(io.Writer)) error {
	if !a.tableOutput() {
		return printJSON(os.Stdout, v)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

func dateOrDash(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateOnly)
}

func writeTasks(w io.Writer, tasks []task.Task) {
	fmt.Fprintln(w, "ID\tOWNER\tPRIORITY\tSTATUS\tDEADLINE\tLAST REMINDER\tTEXT")
	for i := range tasks {
		t := &tasks[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Owner, t.Priority, t.Status, dateOrDash(t.Deadline), dateOrDash(t.LastReminderDate), truncate(t.Text, 60))
	}
}

func writeOverdue(w io.Writer, tasks []service.OverdueTask) {
	fmt.Fprintln(w, "ID\tOWNER\tPRIORITY\tDEADLINE\tDAYS OVERDUE\tTEXT")
	for i := range tasks {
		t := &tasks[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			t.ID, t.Owner, t.Priority, dateOrDash(t.Deadline), t.DaysOverdue, truncate(t.Text, 60))
	}
}

func writeSummary(w io.Writer, s service.PassSummary) {
	fmt.Fprintf(w, "Pass:\t%s\n", s.Pass)
	fmt.Fprintf(w, "Run:\t%s\n", s.RunID)
	fmt.Fprintf(w, "Date:\t%s\n", s.Date.Format(time.DateOnly))
	fmt.Fprintf(w, "Evaluated:\t%d\n", s.Evaluated)
	fmt.Fprintf(w, "Sent:\t%d\n", s.Sent)
	fmt.Fprintf(w, "Skipped:\t%d\n", s.Skipped)
	fmt.Fprintf(w, "Failed:\t%d\n", s.Failed)
	for _, warn := range s.Warnings {
		fmt.Fprintf(w, "Warning:\t%s\n", warn)
	}
	for _, e := range s.Errors {
		fmt.Fprintf(w, "Error:\t%s: %s\n", e.TaskID, e.Error)
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
