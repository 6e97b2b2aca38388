// Package messagequeue defines the message queue port (interface).
package messagequeue

import "context"

// Handler processes a message received from the queue.
// The context carries request-scoped values such as the request ID.
// Returning an error asks the broker to redeliver.
type Handler func(ctx context.Context, subject string, data []byte) error

// Queue is the port interface for publishing and subscribing to messages.
type Queue interface {
	// Publish sends a message to the given subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Subscribe registers a handler for messages on the given subject.
	// The returned function cancels the subscription.
	Subscribe(ctx context.Context, subject string, handler Handler) (cancel func(), err error)

	// Drain processes pending messages, then closes the connection.
	Drain() error

	// Close shuts down the queue connection immediately.
	Close() error

	// IsConnected reports whether the queue is currently connected.
	IsConnected() bool
}

// Outbound lifecycle events.
const (
	SubjectTaskCreated   = "tasks.created"
	SubjectTaskReminded  = "tasks.reminded"
	SubjectTaskEscalated = "tasks.escalated"
	SubjectTaskCompleted = "tasks.completed"
)

// Inbound mail that an external fetcher has already pulled and decoded.
const (
	SubjectInboundReply = "inbound.replies"
	SubjectInboundMOM   = "inbound.moms"
)

// StreamSubjects lists the subject filters the FOLLOWUP stream captures.
var StreamSubjects = []string{"tasks.>", "inbound.>"}
