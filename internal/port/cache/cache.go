// Package cache defines the port interface for caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value cache. Get reports a miss with ok=false
// and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
