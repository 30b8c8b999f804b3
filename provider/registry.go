package provider

import (
	"fmt"
	"sync"
)

var (
	factories = make(map[string]func() (Provider, error))
	mu        sync.RWMutex
)

// Register installs a factory under a backend name. The agent binary
// registers its two backends ("openai" and "local") at startup; registering
// the same name again replaces the earlier factory.
func Register(name string, factory func() (Provider, error)) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// Get builds the backend registered under name. The error for an unknown
// name lists what is registered, since the name usually comes from
// configuration.
func Get(name string) (Provider, error) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown provider: %q (available: %v)", name, Available())
	}

	return factory()
}

// Available returns the registered backend names.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
