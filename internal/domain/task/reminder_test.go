package task

import (
	"strings"
	"testing"
)

func TestReminderBody(t *testing.T) {
	tasks := []Task{
		{ID: "MOM-20260105-001-T01", Text: "Share the audit report", SourceID: "MOM-20260105-001", Deadline: timePtr(date(2026, 1, 8))},
		{ID: "T2", Text: "Call the vendor"},
	}

	body := ReminderBody("Anita", tasks)

	for _, want := range []string{
		"Dear Anita,",
		"Task ID: MOM-20260105-001-T01",
		"Share the audit report",
		"Due:     2026-01-08",
		"Source:  MOM-20260105-001",
		"Task ID: T2",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Count(body, "Due:") != 1 {
		t.Errorf("expected a single Due line, body:\n%s", body)
	}
}
