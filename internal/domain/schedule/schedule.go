// Package schedule parses the day-granular trigger expressions used for the
// batch passes (reminders, escalations).
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schedule fires once a day, or once a week on Weekday, at Hour:Minute in Location.
type Schedule struct {
	Hour     int
	Minute   int
	Weekday  *time.Weekday // nil = every day
	Location *time.Location
}

// Parse parses a trigger expression:
//   - "daily"             every day at 00:00
//   - "weekly"            every Monday at 00:00
//   - "HH:MM"             every day at HH:MM
//   - "daily:HH:MM"       every day at HH:MM
//   - "weekly:Day"        every Day at 00:00 (e.g. "weekly:Fri")
//   - "weekly:Day:HH:MM"  every Day at HH:MM
//
// Times are interpreted in UTC; use In to change the zone.
func Parse(expr string) (Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Schedule{}, fmt.Errorf("empty schedule expression")
	}

	switch {
	case expr == "daily":
		return Schedule{}, nil

	case expr == "weekly":
		mon := time.Monday
		return Schedule{Weekday: &mon}, nil

	case strings.HasPrefix(expr, "daily:"):
		h, m, err := parseHHMM(strings.TrimPrefix(expr, "daily:"))
		if err != nil {
			return Schedule{}, err
		}
		return Schedule{Hour: h, Minute: m}, nil

	case strings.HasPrefix(expr, "weekly:"):
		parts := strings.SplitN(strings.TrimPrefix(expr, "weekly:"), ":", 2)
		day, err := parseWeekday(parts[0])
		if err != nil {
			return Schedule{}, err
		}
		h, m := 0, 0
		if len(parts) == 2 {
			if h, m, err = parseHHMM(parts[1]); err != nil {
				return Schedule{}, err
			}
		}
		return Schedule{Hour: h, Minute: m, Weekday: &day}, nil

	default:
		h, m, err := parseHHMM(expr)
		if err != nil {
			return Schedule{}, fmt.Errorf("unrecognized schedule expression: %q", expr)
		}
		return Schedule{Hour: h, Minute: m}, nil
	}
}

// MustParse is like Parse but panics on error. For tests and constants.
func MustParse(expr string) Schedule {
	s, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return s
}

// In returns a copy of s evaluated in loc.
func (s Schedule) In(loc *time.Location) Schedule {
	s.Location = loc
	return s
}

func (s Schedule) loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// NextAfter returns the first occurrence strictly after t.
func (s Schedule) NextAfter(t time.Time) time.Time {
	t = t.In(s.loc())
	candidate := time.Date(t.Year(), t.Month(), t.Day(), s.Hour, s.Minute, 0, 0, s.loc())

	if s.Weekday == nil {
		if !candidate.After(t) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return candidate
	}

	for i := range 8 {
		check := candidate.AddDate(0, 0, i)
		if check.Weekday() == *s.Weekday && check.After(t) {
			return check
		}
	}
	return candidate.AddDate(0, 0, 7)
}

// Due reports whether an occurrence falls in (last, now]. A zero last means
// the schedule has never fired and is due at its first occurrence today.
func (s Schedule) Due(last, now time.Time) bool {
	if last.IsZero() {
		y, m, d := now.In(s.loc()).Date()
		last = time.Date(y, m, d, 0, 0, 0, 0, s.loc()).Add(-time.Nanosecond)
	}
	return !s.NextAfter(last).After(now)
}

// String renders s in the canonical expression form.
func (s Schedule) String() string {
	hm := fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
	if s.Weekday != nil {
		return "weekly:" + s.Weekday.String()[:3] + ":" + hm
	}
	return "daily:" + hm
}

// Validate checks if expr is syntactically valid.
func Validate(expr string) error {
	_, err := Parse(expr)
	return err
}

func parseHHMM(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour %q", parts[0])
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute %q", parts[1])
	}
	return h, m, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sun", "sunday":
		return time.Sunday, nil
	case "mon", "monday":
		return time.Monday, nil
	case "tue", "tuesday":
		return time.Tuesday, nil
	case "wed", "wednesday":
		return time.Wednesday, nil
	case "thu", "thursday":
		return time.Thursday, nil
	case "fri", "friday":
		return time.Friday, nil
	case "sat", "saturday":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("unknown weekday %q", s)
	}
}
