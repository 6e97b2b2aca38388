// Package notifier defines the notification port (interface) and capabilities.
package notifier

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when a notifier is not properly configured.
var ErrNotConfigured = errors.New("notifier: not configured")

// Notification is the payload sent through a Notifier.
type Notification struct {
	// Recipient is an e-mail address. Channel notifiers ignore it.
	Recipient string `json:"recipient,omitempty"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Level     string `json:"level"`  // "info", "success", "warning", "error"
	Source    string `json:"source"` // e.g. "task.reminder", "task.escalation"
}

// Capabilities declares which features a notifier supports.
type Capabilities struct {
	RichFormatting bool `json:"rich_formatting"`
	Addressed      bool `json:"addressed"` // delivers to Notification.Recipient
}

// Notifier is the port interface for sending notifications.
type Notifier interface {
	// Name returns the unique identifier for this notifier (e.g. "slack", "email").
	Name() string

	// Capabilities returns what this notifier supports.
	Capabilities() Capabilities

	// Send delivers a notification. A nil error means delivery was accepted.
	Send(ctx context.Context, notification Notification) error
}
