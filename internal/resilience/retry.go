package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Permanent wraps err so Retry returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// Retry calls fn up to attempts times, waiting a constant wait between tries.
// It stops early on success, on a Permanent error, on ErrCircuitOpen, or when
// ctx is done. The last error is returned with any Permanent marker removed;
// when ctx ends the wait it is joined with the context error.
func Retry(ctx context.Context, attempts int, wait time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var last error
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		last = fn(ctx)
		if errors.Is(last, ErrCircuitOpen) {
			return struct{}{}, backoff.Permanent(last)
		}
		return struct{}{}, last
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(wait)),
		backoff.WithMaxTries(uint(attempts)),
	)
	if err != nil && last != nil && ctx.Err() != nil && !errors.Is(err, last) {
		return errors.Join(last, err)
	}
	return err
}
