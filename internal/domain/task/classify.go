package task

import "strings"

// Rules is the keyword and threshold data driving priority classification.
// Matching is case-insensitive substring matching.
type Rules struct {
	UrgentKeywords      []string `yaml:"urgent_keywords" json:"urgent_keywords"`
	UrgentTaskTypes     []string `yaml:"urgent_task_types" json:"urgent_task_types"`
	CriticalDepartments []string `yaml:"critical_departments" json:"critical_departments"`
	UrgentWithinDays    int      `yaml:"urgent_within_days" json:"urgent_within_days"`

	HighKeywords    []string `yaml:"high_keywords" json:"high_keywords"`
	HighTaskTypes   []string `yaml:"high_task_types" json:"high_task_types"`
	HighDepartments []string `yaml:"high_departments" json:"high_departments"`
	HighWithinDays  int      `yaml:"high_within_days" json:"high_within_days"`

	MediumKeywords   []string `yaml:"medium_keywords" json:"medium_keywords"`
	MediumWithinDays int      `yaml:"medium_within_days" json:"medium_within_days"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		UrgentKeywords: []string{
			"urgent", "asap", "immediately", "critical", "emergency",
			"today", "right away",
		},
		UrgentTaskTypes: []string{
			"tds", "gst", "vat", "tax return", "statutory", "compliance",
			"audit", "filing",
		},
		CriticalDepartments: []string{
			"finance", "tax", "statutory", "compliance", "audit", "legal",
			"ceo", "board", "investor",
		},
		UrgentWithinDays: 2,

		HighKeywords: []string{
			"important", "significant", "essential", "vital", "crucial",
			"major", "serious", "pressing", "high priority",
		},
		HighTaskTypes: []string{
			"report", "presentation", "meeting", "review", "approval",
			"invoice", "agreement", "contract",
		},
		HighDepartments: []string{"hr", "operations", "sales", "customer", "client"},
		HighWithinDays:  5,

		MediumKeywords: []string{
			"moderate", "regular", "normal", "standard", "routine",
			"typical", "ordinary", "medium priority",
		},
		MediumWithinDays: 10,
	}
}

// Input is what the classifier sees about a task.
type Input struct {
	Text    string
	Owner   string
	Subject string
	// DeadlineDays is the caller-known number of days until the deadline.
	DeadlineDays *int
}

// Classify assigns a priority to in. First matching rule wins; it never fails.
func (r Rules) Classify(in Input) Priority {
	haystack := strings.ToLower(in.Text + " " + in.Subject + " " + in.Owner)
	dept := strings.ToLower(in.Owner + " " + in.Subject)

	within := func(limit int) bool {
		return in.DeadlineDays != nil && limit > 0 && *in.DeadlineDays <= limit
	}

	switch {
	case containsAny(haystack, r.UrgentKeywords),
		containsAny(haystack, r.UrgentTaskTypes),
		containsAny(dept, r.CriticalDepartments),
		within(r.UrgentWithinDays):
		return PriorityUrgent
	case containsAny(haystack, r.HighKeywords),
		containsAny(haystack, r.HighTaskTypes),
		within(r.HighWithinDays),
		containsAny(dept, r.HighDepartments):
		return PriorityHigh
	case containsAny(haystack, r.MediumKeywords),
		within(r.MediumWithinDays):
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Classify applies the default rule set.
func Classify(in Input) Priority {
	return DefaultRules().Classify(in)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" && strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
