package task

import "strings"

// ParseStatus maps the status spellings found in legacy sheets onto the two
// lifecycle states. Unknown values are treated as OPEN.
func ParseStatus(s string) Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "COMPLETED", "COMPLETE", "DONE", "CLOSED":
		return StatusCompleted
	default:
		return StatusOpen
	}
}

// ParsePriority maps a stored priority onto a known value; NORMAL and
// anything unrecognised become MEDIUM.
func ParsePriority(s string) Priority {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if p.Valid() {
		return p
	}
	return PriorityMedium
}

// ParseRating maps a stored rating onto a known value or "".
func ParseRating(s string) Rating {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on time":
		return RatingOnTime
	case "slightly late":
		return RatingSlightlyLate
	case "late":
		return RatingLate
	}
	return ""
}
