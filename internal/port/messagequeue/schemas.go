package messagequeue

import "time"

// TaskEventPayload is the schema for every tasks.* event.
type TaskEventPayload struct {
	TaskID      string     `json:"task_id"`
	Owner       string     `json:"owner"`
	Text        string     `json:"text"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	DaysOverdue int        `json:"days_overdue,omitempty"`
	Rating      string     `json:"performance_rating,omitempty"`
	Recipient   string     `json:"recipient,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

// InboundReplyPayload is the schema for inbound.replies messages.
type InboundReplyPayload struct {
	MessageID  string    `json:"message_id"`
	From       string    `json:"from"`
	SenderName string    `json:"sender_name"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// InboundMOMPayload is the schema for inbound.moms messages.
type InboundMOMPayload struct {
	MessageID  string    `json:"message_id"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	HTML       bool      `json:"html"`
	ReceivedAt time.Time `json:"received_at"`
}
