package notifier

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Factory builds a Notifier from flat string settings, e.g. {"webhook_url": ...}.
// It returns ErrNotConfigured when the settings leave the channel disabled.
type Factory func(settings map[string]string) (Notifier, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a notifier factory available by name.
// Adapter packages call it from init().
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("notifier: duplicate registration for %q", name))
	}
	factories[name] = factory
}

// New creates a Notifier by name using the registered factory.
func New(name string, settings map[string]string) (Notifier, error) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("notifier: unknown provider %q", name)
	}
	return factory(settings)
}

// Available returns the registered notifier names in sorted order.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates every provider present in settings. Providers that report
// ErrNotConfigured are skipped; the names of skipped providers are returned
// alongside the active set.
func Build(settings map[string]map[string]string) (active []Notifier, skipped []string, err error) {
	names := make([]string, 0, len(settings))
	for name := range settings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		n, buildErr := New(name, settings[name])
		if errors.Is(buildErr, ErrNotConfigured) {
			skipped = append(skipped, name)
			continue
		}
		if buildErr != nil {
			return nil, nil, fmt.Errorf("notifier %s: %w", name, buildErr)
		}
		active = append(active, n)
	}
	return active, skipped, nil
}
