package resilient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Strob0t/followup/internal/port/notifier"
	"github.com/Strob0t/followup/internal/resilience"
)

// Notifier guards a notifier with a circuit breaker. Sends are not retried
// here; the next pass retries whatever failed.
type Notifier struct {
	inner   notifier.Notifier
	breaker *resilience.Breaker
}

// NewNotifier decorates inner.
func NewNotifier(inner notifier.Notifier, maxFailures int, timeout time.Duration) *Notifier {
	name := inner.Name()
	return &Notifier{
		inner: inner,
		breaker: resilience.NewBreaker(maxFailures, timeout,
			resilience.WithFailurePredicate(func(err error) bool {
				return !errors.Is(err, notifier.ErrNotConfigured) && !errors.Is(err, context.Canceled)
			}),
			resilience.WithStateChange(func(from, to resilience.State) {
				slog.Warn("notifier circuit breaker", "notifier", name, "from", from, "to", to)
			}),
		),
	}
}

func (n *Notifier) Name() string                        { return n.inner.Name() }
func (n *Notifier) Capabilities() notifier.Capabilities { return n.inner.Capabilities() }

func (n *Notifier) Send(ctx context.Context, nf notifier.Notification) error {
	err := n.breaker.Execute(func() error { return n.inner.Send(ctx, nf) })
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("%s: %w", n.inner.Name(), err)
	}
	return err
}
