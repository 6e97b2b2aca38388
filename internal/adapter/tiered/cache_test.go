package tiered_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Strob0t/followup/internal/adapter/tiered"
	"github.com/Strob0t/followup/internal/port/cache"
)

var _ cache.Cache = (*tiered.Cache)(nil)

// memCache is a simple in-memory cache for testing.
type memCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
	err  error
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestTieredL1Hit(t *testing.T) {
	l1, l2 := newMemCache(), newMemCache()
	c := tiered.New(l1, l2, 5*time.Minute)
	l1.data["dir:ravi"] = []byte("ravi@example.com")

	v, ok, err := c.Get(context.Background(), "dir:ravi")
	if err != nil || !ok || string(v) != "ravi@example.com" {
		t.Fatalf("Get() = %q, %v, %v", v, ok, err)
	}
}

func TestTieredL2HitBackfills(t *testing.T) {
	l1, l2 := newMemCache(), newMemCache()
	c := tiered.New(l1, l2, 5*time.Minute)
	l2.data["dir:ravi"] = []byte("ravi@example.com")

	v, ok, err := c.Get(context.Background(), "dir:ravi")
	if err != nil || !ok || string(v) != "ravi@example.com" {
		t.Fatalf("Get() = %q, %v, %v", v, ok, err)
	}
	if string(l1.data["dir:ravi"]) != "ravi@example.com" {
		t.Error("expected L1 backfill")
	}
	if l1.ttls["dir:ravi"] != 5*time.Minute {
		t.Errorf("backfill ttl = %v", l1.ttls["dir:ravi"])
	}
}

func TestTieredSetCapsL1TTL(t *testing.T) {
	l1, l2 := newMemCache(), newMemCache()
	c := tiered.New(l1, l2, time.Minute)

	if err := c.Set(context.Background(), "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if l1.ttls["k"] != time.Minute {
		t.Errorf("l1 ttl = %v, want 1m", l1.ttls["k"])
	}
	if l2.ttls["k"] != time.Hour {
		t.Errorf("l2 ttl = %v, want 1h", l2.ttls["k"])
	}
}

func TestTieredL2FailureDegrades(t *testing.T) {
	l1, l2 := newMemCache(), newMemCache()
	l2.err = errors.New("nats down")
	c := tiered.New(l1, l2, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set should tolerate L2 failure: %v", err)
	}
	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Errorf("Get() = %v, %v; want miss without error", ok, err)
	}
	if v, ok, _ := c.Get(ctx, "k"); !ok || string(v) != "v" {
		t.Error("expected L1 hit")
	}
}

func TestTieredWithoutL2(t *testing.T) {
	c := tiered.New(newMemCache(), nil, time.Minute)
	ctx := context.Background()
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if v, ok, _ := c.Get(ctx, "k"); !ok || string(v) != "v" {
		t.Error("expected hit")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
}
