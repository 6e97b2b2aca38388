// Package ristretto implements the cache port in process, backed by
// dgraph-io/ristretto. It is the L1 tier for directory lookups.
package ristretto

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache is an in-process byte cache bounded by total value size.
type Cache struct {
	c *ristretto.Cache[string, []byte]
	// sync makes Set block until the value is visible to Get.
	sync bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithSyncWrites makes every Set wait for the write buffer to drain.
func WithSyncWrites() Option {
	return func(c *Cache) { c.sync = true }
}

// New creates a cache holding at most maxCostBytes of values.
func New(maxCostBytes int64, opts ...Option) (*Cache, error) {
	if maxCostBytes <= 0 {
		return nil, fmt.Errorf("ristretto: max cost must be positive, got %d", maxCostBytes)
	}
	rc, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: max(maxCostBytes/10, 1000),
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("ristretto: %w", err)
	}
	c := &Cache{c: rc}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Get returns the value stored under key.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.c.Get(key)
	return v, ok, nil
}

// Set stores value under key for ttl. A zero ttl keeps it until evicted.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.c.SetWithTTL(key, value, int64(len(value))+int64(len(key)), ttl)
	if c.sync {
		c.c.Wait()
	}
	return nil
}

// Delete removes key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.c.Del(key)
	return nil
}

// Close releases the cache's goroutines.
func (c *Cache) Close() {
	c.c.Close()
}
