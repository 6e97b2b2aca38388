package sheet

import "strings"

// Canonical column names, in the order Write emits them.
const (
	colTaskID    = "task_id"
	colSourceID  = "source_id"
	colOwner     = "owner"
	colText      = "text"
	colStatus    = "status"
	colPriority  = "priority"
	colCreatedBy = "created_by"
	colCreatedOn = "created_on"
	colDeadline  = "deadline"
	colLastRem   = "last_reminder_date"
	colCompleted = "completed_date"
	colDaysTaken = "days_taken"
	colRating    = "performance_rating"
)

var columns = []string{
	colTaskID, colSourceID, colOwner, colText, colStatus, colPriority, colCreatedBy,
	colCreatedOn, colDeadline, colLastRem, colCompleted, colDaysTaken, colRating,
}

// aliases maps normalized legacy headers onto canonical ones. Older sheets
// carried both a lowercase and a Title Case set; when a row has values in both,
// the column that appears first wins.
var aliases = map[string]string{
	"task_id":            colTaskID,
	"id":                 colTaskID,
	"source_id":          colSourceID,
	"meeting_id":         colSourceID,
	"owner":              colOwner,
	"assignee":           colOwner,
	"text":               colText,
	"task_text":          colText,
	"subject":            colText,
	"task":               colText,
	"status":             colStatus,
	"priority":           colPriority,
	"created_by":         colCreatedBy,
	"cc":                 colCreatedBy,
	"created_on":         colCreatedOn,
	"deadline":           colDeadline,
	"due_date":           colDeadline,
	"last_reminder_date": colLastRem,
	"last_reminder_on":   colLastRem,
	"completed_date":     colCompleted,
	"days_taken":         colDaysTaken,
	"performance_rating": colRating,
	"performance":        colRating,
}

// normalizeHeader lowercases h and folds spaces and dashes to underscores,
// so "Due Date" and "due-date" both become "due_date".
func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	h = strings.ToLower(h)
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	return h
}

// canonical resolves a raw header, returning "" for unknown columns.
func canonical(h string) string {
	return aliases[normalizeHeader(h)]
}
