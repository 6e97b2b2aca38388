package reply

import "strings"

// Type is the kind of automatic answer an inbound message deserves.
type Type string

const (
	TypeNoReply     Type = "NO_REPLY"
	TypeAckOnly     Type = "ACK_ONLY"
	TypeTaskConfirm Type = "TASK_CONFIRM"
)

var (
	questionMarkers = []string{"?", "please confirm", "let me know", "can you", "could you", "what is", "when will", "why", "how"}
	fyiMarkers      = []string{"fyi", "for your information", "attached", "invoice", "newsletter", "auto-generated"}
)

// DecideType picks the reply for an inbound message. Status updates are
// always confirmed; meeting minutes and informational mail get no reply;
// questions get a plain acknowledgment.
func DecideType(text string, hasUpdates, isMOM bool) Type {
	if hasUpdates {
		return TypeTaskConfirm
	}
	if isMOM {
		return TypeNoReply
	}
	lower := strings.ToLower(text)
	for _, m := range fyiMarkers {
		if strings.Contains(lower, m) {
			return TypeNoReply
		}
	}
	for _, m := range questionMarkers {
		if strings.Contains(lower, m) {
			return TypeAckOnly
		}
	}
	return TypeNoReply
}
