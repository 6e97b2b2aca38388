// Package mom turns minutes-of-meeting mail into task drafts.
package mom

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/Strob0t/followup/internal/domain/task"
)

// Message is an already-fetched minutes-of-meeting mail.
type Message struct {
	Subject    string    `json:"subject"`
	From       string    `json:"from"`
	ReceivedAt time.Time `json:"received_at"`
	Body       string    `json:"body"`
}

// Draft is an action point found in the minutes.
type Draft struct {
	TaskID string `json:"task_id"`
	Text   string `json:"text"`
	Owner  string `json:"owner"`
}

// Meeting is the parsed result of one minutes mail.
type Meeting struct {
	ID        string    `json:"meeting_id"`
	Subject   string    `json:"subject"`
	CreatedBy string    `json:"created_by"`
	Date      time.Time `json:"meeting_date"`
	Drafts    []Draft   `json:"tasks"`
}

const minTaskLength = 15

var (
	actionKeywords = []string{
		"please", "share", "check", "update", "confirm", "take care",
		"taken care", "follow", "send", "review", "let me know",
	}

	ownerRe       = regexp.MustCompile(`(?:^|\s)[\*@]([A-Za-z]+)`)
	ownerOnlyRe   = regexp.MustCompile(`^[\*@]([A-Za-z]+)$`)
	breakTagRe    = regexp.MustCompile(`(?i)<\s*(br|/p|/div|/li|/tr)\s*/?>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	spaceRe       = regexp.MustCompile(`[ \t\f\v]+`)
	sentenceEndRe = regexp.MustCompile(`\.(\s+|$)`)
)

// MeetingID formats the identifier of the seq-th meeting on date.
func MeetingID(date time.Time, seq int) string {
	return fmt.Sprintf("MOM-%s-%03d", date.UTC().Format("20060102"), seq)
}

// TaskID formats the identifier of the index-th task (1-based) of a meeting.
func TaskID(meetingID string, index int) string {
	return fmt.Sprintf("%s-T%02d", meetingID, index)
}

// Parse extracts the action points of msg. seq disambiguates several
// meetings received on the same day and starts at 1.
func Parse(msg Message, seq int) Meeting {
	if seq < 1 {
		seq = 1
	}
	m := Meeting{
		ID:        MeetingID(msg.ReceivedAt, seq),
		Subject:   strings.TrimSpace(msg.Subject),
		CreatedBy: strings.TrimSpace(msg.From),
		Date:      msg.ReceivedAt.UTC(),
	}
	for i, c := range candidates(CleanHTML(msg.Body)) {
		owner := c.owner
		if owner == "" {
			owner = m.CreatedBy
		}
		m.Drafts = append(m.Drafts, Draft{TaskID: TaskID(m.ID, i+1), Text: c.text, Owner: owner})
	}
	return m
}

// CreateRequests converts the drafts into task creation requests.
func (m Meeting) CreateRequests() []task.CreateRequest {
	out := make([]task.CreateRequest, 0, len(m.Drafts))
	for _, d := range m.Drafts {
		out = append(out, task.CreateRequest{
			ID:        d.TaskID,
			SourceID:  m.ID,
			Owner:     d.Owner,
			Text:      d.Text,
			Subject:   m.Subject,
			CreatedBy: m.CreatedBy,
		})
	}
	return out
}

// CleanHTML strips markup from a mail body, keeping line structure.
func CleanHTML(s string) string {
	s = breakTagRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return spaceRe.ReplaceAllString(s, " ")
}

type candidate struct {
	text  string
	owner string
}

func candidates(body string) []candidate {
	var out []candidate
	for _, line := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		for _, frag := range sentenceEndRe.Split(line, -1) {
			frag = strings.TrimSpace(frag)
			if frag == "" {
				continue
			}
			// A lone "*Name" after a sentence assigns the previous action point.
			if m := ownerOnlyRe.FindStringSubmatch(frag); m != nil {
				if n := len(out); n > 0 && out[n-1].owner == "" {
					out[n-1].owner = capitalize(m[1])
				}
				continue
			}
			if len(frag) < minTaskLength || !isAction(frag) {
				continue
			}
			c := candidate{text: frag}
			if m := ownerRe.FindStringSubmatch(frag); m != nil {
				c.owner = capitalize(m[1])
			}
			out = append(out, c)
		}
	}
	return out
}

func isAction(s string) bool {
	lower := strings.ToLower(s)
	for _, k := range actionKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// LooksLikeMinutes reports whether a subject line announces meeting minutes.
func LooksLikeMinutes(subject string) bool {
	s := strings.ToUpper(subject)
	return strings.Contains(s, "MOM") || strings.Contains(s, "MINUTES OF MEETING")
}
