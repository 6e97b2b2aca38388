// Package broadcast defines the port for pushing lifecycle events to connected clients.
package broadcast

import "context"

// Event types pushed to live clients.
const (
	EventTaskCreated   = "task.created"
	EventTaskReminded  = "task.reminded"
	EventTaskEscalated = "task.escalated"
	EventTaskCompleted = "task.completed"
	EventPassFinished  = "pass.finished"
)

// Broadcaster sends real-time events to all connected clients.
type Broadcaster interface {
	// BroadcastEvent sends a typed event to all connected clients.
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}
