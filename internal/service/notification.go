// Package service contains application services.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Strob0t/followup/internal/port/notifier"
)

// NotificationService routes notifications to the configured notifiers.
// Addressed notifiers (mail) deliver to a person; channel notifiers (chat
// webhooks) only mirror selected events.
type NotificationService struct {
	addressed     []notifier.Notifier
	channels      []notifier.Notifier
	enabledEvents map[string]bool
}

// NewNotificationService creates a NotificationService with the given notifiers
// and list of event sources mirrored to channels (e.g. "task.escalation").
// If enabledEvents is nil or empty, all events are mirrored.
func NewNotificationService(notifiers []notifier.Notifier, enabledEvents []string) *NotificationService {
	enabled := make(map[string]bool, len(enabledEvents))
	for _, e := range enabledEvents {
		enabled[e] = true
	}
	s := &NotificationService{enabledEvents: enabled}
	for _, n := range notifiers {
		if n.Capabilities().Addressed {
			s.addressed = append(s.addressed, n)
		} else {
			s.channels = append(s.channels, n)
		}
	}
	return s
}

// Name implements notifier.Notifier.
func (s *NotificationService) Name() string { return "fanout" }

// Capabilities implements notifier.Notifier.
func (s *NotificationService) Capabilities() notifier.Capabilities {
	return notifier.Capabilities{Addressed: len(s.addressed) > 0}
}

// Send delivers n through the first addressed notifier that accepts it.
// It returns notifier.ErrNotConfigured when no addressed notifier exists.
func (s *NotificationService) Send(ctx context.Context, n notifier.Notification) error {
	if len(s.addressed) == 0 {
		return notifier.ErrNotConfigured
	}
	var errs []error
	for _, provider := range s.addressed {
		err := provider.Send(ctx, n)
		if err == nil {
			slog.Debug("notification sent", "provider", provider.Name(), "source", n.Source)
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return errors.Join(errs...)
}

// Notify mirrors n to all channel notifiers.
// Errors are logged but do not interrupt delivery to other notifiers.
func (s *NotificationService) Notify(ctx context.Context, n notifier.Notification) {
	if len(s.enabledEvents) > 0 && !s.enabledEvents[n.Source] {
		return
	}

	for _, provider := range s.channels {
		if err := provider.Send(ctx, n); err != nil {
			slog.Warn("notification mirror failed",
				"provider", provider.Name(),
				"title", n.Title,
				"error", err,
			)
			continue
		}
		slog.Debug("notification mirrored", "provider", provider.Name(), "title", n.Title)
	}
}

// NotifierCount returns the number of registered notifiers.
func (s *NotificationService) NotifierCount() int {
	return len(s.addressed) + len(s.channels)
}
