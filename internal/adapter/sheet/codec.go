package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Strob0t/followup/internal/domain"
	"github.com/Strob0t/followup/internal/domain/task"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"02/01/2006",
}

func parseTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "nat") {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}

func parseDate(s string) (*time.Time, error) {
	t, err := parseTime(s)
	if t == nil || err != nil {
		return nil, err
	}
	d := task.Day(*t)
	return &d, nil
}

// Read decodes a CSV sheet. Rows with no owner, text and status are dropped.
// Any other malformed row fails the whole read with domain.ErrValidation.
func Read(r io.Reader) ([]task.Task, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []task.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make([]string, len(header))
	seen := make(map[string]bool)
	for i, h := range header {
		index[i] = canonical(h)
		if index[i] != "" {
			seen[index[i]] = true
		}
	}
	if !seen[colTaskID] {
		return nil, fmt.Errorf("sheet has no task_id column: %w", domain.ErrValidation)
	}

	tasks := []task.Task{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		fields := make(map[string]string, len(columns))
		for i, v := range rec {
			if i >= len(index) || index[i] == "" {
				continue
			}
			v = strings.TrimSpace(v)
			if _, set := fields[index[i]]; !set || fields[index[i]] == "" {
				fields[index[i]] = v
			}
		}
		if fields[colOwner] == "" && fields[colText] == "" && fields[colStatus] == "" {
			continue
		}

		t, err := decodeRow(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %v: %w", line, err, domain.ErrValidation)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func decodeRow(f map[string]string) (task.Task, error) {
	t := task.Task{
		ID:                f[colTaskID],
		SourceID:          f[colSourceID],
		Owner:             f[colOwner],
		Text:              f[colText],
		Status:            task.ParseStatus(f[colStatus]),
		Priority:          task.ParsePriority(f[colPriority]),
		CreatedBy:         f[colCreatedBy],
		PerformanceRating: task.ParseRating(f[colRating]),
	}

	created, err := parseTime(f[colCreatedOn])
	if err != nil {
		return t, fmt.Errorf("created_on: %w", err)
	}
	if created != nil {
		t.CreatedOn = *created
	}
	if t.Deadline, err = parseDate(f[colDeadline]); err != nil {
		return t, fmt.Errorf("deadline: %w", err)
	}
	if t.LastReminderDate, err = parseDate(f[colLastRem]); err != nil {
		return t, fmt.Errorf("last_reminder_date: %w", err)
	}
	if t.CompletedDate, err = parseTime(f[colCompleted]); err != nil {
		return t, fmt.Errorf("completed_date: %w", err)
	}
	if s := f[colDaysTaken]; s != "" {
		// Spreadsheets tend to store integers as "3.0".
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return t, fmt.Errorf("days_taken: %w", err)
		}
		d := int(n)
		t.DaysTaken = &d
	}

	backfillCompletion(&t)

	// Legacy sheets mark rows done without recording when.
	check := t
	if check.Status == task.StatusCompleted && check.CompletedDate == nil {
		check.Status = task.StatusOpen
	}
	if err := check.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// backfillCompletion derives days_taken and the rating from completed_date
// when a sheet recorded only the date.
func backfillCompletion(t *task.Task) {
	if t.Status != task.StatusCompleted || t.CompletedDate == nil || t.CreatedOn.IsZero() {
		return
	}
	if t.DaysTaken == nil {
		d := int(t.CompletedDate.Sub(t.CreatedOn) / (24 * time.Hour))
		t.DaysTaken = &d
	}
	if t.PerformanceRating == "" {
		t.PerformanceRating = task.RateCompletion(t.Deadline, *t.CompletedDate)
	}
}

// Write encodes tasks with the canonical header.
func Write(w io.Writer, tasks []task.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range tasks {
		if err := cw.Write(encodeRow(&tasks[i])); err != nil {
			return fmt.Errorf("write %s: %w", tasks[i].ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodeRow(t *task.Task) []string {
	date := func(p *time.Time) string {
		if p == nil {
			return ""
		}
		return p.Format(time.DateOnly)
	}
	stamp := func(p *time.Time) string {
		if p == nil {
			return ""
		}
		return p.Format(time.RFC3339)
	}
	days := ""
	if t.DaysTaken != nil {
		days = strconv.Itoa(*t.DaysTaken)
	}
	return []string{
		t.ID, t.SourceID, t.Owner, t.Text, string(t.Status), string(t.Priority), t.CreatedBy,
		t.CreatedOn.Format(time.RFC3339), date(t.Deadline), date(t.LastReminderDate),
		stamp(t.CompletedDate), days, string(t.PerformanceRating),
	}
}
