// Package reply turns free-form reply text into structured task updates and
// plans the resulting task mutations.
package reply

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Resolution is the interpreted meaning of a reported status.
type Resolution string

const (
	ResolutionCompleted Resolution = "COMPLETED"
	ResolutionPending   Resolution = "PENDING"
	ResolutionUnknown   Resolution = "UNKNOWN"
)

// Update is a single status report found in a reply.
type Update struct {
	TaskID    string `json:"task_id"`
	RawStatus string `json:"raw_status"`
	Notes     string `json:"notes,omitempty"`
}

// Resolution interprets the raw status of u.
func (u Update) Resolution() Resolution { return ClassifyStatus(u.RawStatus) }

const (
	maxNotes     = 200
	maxBlock     = 5
	statusWindow = 3
)

var (
	completionWords = []string{"COMPLETED", "COMPLETE", "DONE", "FINISHED", "ACCOMPLISHED", "CLOSED", "RESOLVED"}
	pendingWords    = []string{"PENDING", "IN PROGRESS", "WORKING ON", "WAITING FOR"}
	// Stems also match their inflections ("NEEDS", "REQUIRES").
	pendingStems = []string{"AWAIT", "NEED", "REQUIRE"}

	statusAlternation = alternation(completionWords, pendingWords) + "|" + stems(pendingStems)

	// statusWordRe finds the leftmost status keyword, with an optional
	// negation in front of it.
	statusWordRe = regexp.MustCompile(`(?i)\b(not\s+(?:yet\s+)?)?(` + statusAlternation + `)\b`)
	// statusPrefixRe matches a status keyword at the start of a phrase.
	statusPrefixRe = regexp.MustCompile(`(?i)^(?:not\s+(?:yet\s+)?)?(?:` + statusAlternation + `)\b`)

	taskIDLabelRe = regexp.MustCompile(`(?i)\btask\s*id\b\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9_\-]*)`)
	statusLabelRe = regexp.MustCompile(`(?i)\bstatus\s*[:\-]\s*([A-Za-z][A-Za-z ]*)`)
	bulletRe      = regexp.MustCompile(`^\s*[•\-\*]\s*`)
	bulletTaskRe  = regexp.MustCompile(`(?i)^\s*[•\-\*]\s*task\s*id\b\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9_\-]*)`)
	inlineRe      = regexp.MustCompile(`^\s*(?:[•\-\*]\s*)?([A-Za-z0-9][A-Za-z0-9_\-]*)\s*:\s*(.*)$`)
	separatorsRe  = regexp.MustCompile(`^[\s:\-–—,.;]+`)
)

func alternation(lists ...[]string) string {
	var parts []string
	for _, l := range lists {
		for _, w := range l {
			parts = append(parts, strings.ReplaceAll(regexp.QuoteMeta(w), " ", `\s+`))
		}
	}
	return strings.Join(parts, "|")
}

func stems(words []string) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, regexp.QuoteMeta(w)+`\w*`)
	}
	return strings.Join(parts, "|")
}

// ClassifyStatus maps a status phrase onto a resolution. The leftmost
// keyword decides, so "pending, will be done Friday" stays pending. Keywords
// must start a word: "INCOMPLETE" is not a completion. A negated completion
// ("not done") counts as pending.
func ClassifyStatus(raw string) Resolution {
	m := statusWordRe.FindStringSubmatch(raw)
	if m == nil {
		return ResolutionUnknown
	}
	word := strings.Join(strings.Fields(strings.ToUpper(m[2])), " ")
	for _, w := range completionWords {
		if word == w {
			if m[1] != "" {
				return ResolutionPending
			}
			return ResolutionCompleted
		}
	}
	return ResolutionPending
}

// ExtractUpdates finds status reports in text. Three shapes are recognised,
// in this priority order:
//
//  1. "Task ID: <id>" followed on the same or a following line by "Status: <word>"
//  2. "<id>: <status-word>" on a single line
//  3. a bullet "• Task ID: <id>" whose status is inferred from the lines below it
//
// The first report for a task id wins. Notes are the text around the report
// with the identifier line removed, at most 200 characters.
func ExtractUpdates(text string) []Update {
	lines := splitLines(text)
	seen := make(map[string]bool)
	var out []Update

	add := func(u Update) {
		key := strings.ToUpper(u.TaskID)
		if u.TaskID == "" || seen[key] {
			return
		}
		seen[key] = true
		u.Notes = truncate(u.Notes, maxNotes)
		out = append(out, u)
	}

	for _, u := range labelledUpdates(lines) {
		add(u)
	}
	for _, u := range inlineUpdates(lines) {
		add(u)
	}
	for _, u := range bulletUpdates(lines) {
		add(u)
	}
	return out
}

func labelledUpdates(lines []string) []Update {
	var out []Update
	for i, line := range lines {
		m := taskIDLabelRe.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		id := cleanID(line[m[2]:m[3]])

		// Status on the same line, after the id.
		statusLine := -1
		var sm []string
		if s := statusLabelRe.FindStringSubmatch(line[m[1]:]); s != nil {
			statusLine, sm = i, s
		}
		for j := i + 1; sm == nil && j < len(lines) && j <= i+statusWindow; j++ {
			if taskIDLabelRe.MatchString(lines[j]) {
				break
			}
			if s := statusLabelRe.FindStringSubmatch(lines[j]); s != nil {
				statusLine, sm = j, s
			}
		}
		if sm == nil {
			continue
		}

		raw := normalizePhrase(sm[1])
		var notes []string
		if statusLine != i {
			if rest := residual(lines[statusLine], sm[0]); rest != "" {
				notes = append(notes, rest)
			}
		}
		notes = append(notes, block(lines, max(i, statusLine)+1, id)...)
		out = append(out, Update{TaskID: id, RawStatus: raw, Notes: strings.Join(notes, " ")})
	}
	return out
}

func inlineUpdates(lines []string) []Update {
	var out []Update
	for i, line := range lines {
		id, raw, rest, ok := inlineMatch(line)
		if !ok {
			continue
		}
		notes := rest
		if notes == "" {
			notes = strings.Join(block(lines, i+1, id), " ")
		}
		out = append(out, Update{TaskID: id, RawStatus: raw, Notes: notes})
	}
	return out
}

func inlineMatch(line string) (id, raw, rest string, ok bool) {
	m := inlineRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", "", false
	}
	id = cleanID(m[1])
	if !strings.ContainsAny(id, "0123456789") {
		return "", "", "", false
	}
	phrase := strings.TrimSpace(m[2])
	p := statusPrefixRe.FindString(phrase)
	if p == "" {
		return "", "", "", false
	}
	rest = separatorsRe.ReplaceAllString(phrase[len(p):], "")
	return id, normalizePhrase(p), strings.TrimSpace(rest), true
}

func bulletUpdates(lines []string) []Update {
	var out []Update
	for i, line := range lines {
		m := bulletTaskRe.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		id := cleanID(line[m[2]:m[3]])

		var parts []string
		if rest := separatorsRe.ReplaceAllString(line[m[1]:], ""); strings.TrimSpace(rest) != "" {
			parts = append(parts, strings.TrimSpace(rest))
		}
		parts = append(parts, block(lines, i+1, id)...)
		joined := strings.Join(parts, " ")

		raw := ""
		if s := statusWordRe.FindString(joined); s != "" {
			raw = normalizePhrase(s)
		}
		out = append(out, Update{TaskID: id, RawStatus: raw, Notes: joined})
	}
	return out
}

// block collects up to maxBlock non-empty lines starting at from, stopping at
// the next task marker, a quoted line or a blank line after some content.
// Lines mentioning id are skipped.
func block(lines []string, from int, id string) []string {
	var out []string
	for j := from; j < len(lines) && len(out) < maxBlock; j++ {
		l := strings.TrimSpace(lines[j])
		if l == "" {
			if len(out) > 0 {
				break
			}
			continue
		}
		if isMarker(lines[j]) || strings.HasPrefix(l, ">") {
			break
		}
		if strings.Contains(strings.ToUpper(l), strings.ToUpper(id)) {
			continue
		}
		if s := statusLabelRe.FindString(l); s != "" && strings.HasPrefix(strings.ToLower(l), "status") {
			if rest := residual(l, s); rest != "" {
				out = append(out, rest)
			}
			continue
		}
		out = append(out, l)
	}
	return out
}

func isMarker(line string) bool {
	if taskIDLabelRe.MatchString(line) || bulletRe.MatchString(line) {
		return true
	}
	_, _, _, ok := inlineMatch(line)
	return ok
}

func residual(line, matched string) string {
	idx := strings.Index(line, matched)
	if idx < 0 {
		return ""
	}
	rest := line[idx+len(matched):]
	return strings.TrimSpace(separatorsRe.ReplaceAllString(rest, ""))
}

func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

func cleanID(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "-_")
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}
