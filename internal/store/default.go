package store

import "sync"

// Process-wide registry and initialization guard.
var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// ResetDefault discards the process-wide registry, subscriptions included.
// It is not safe for concurrent use and is meant for tests.
func ResetDefault() {
	defaultOnce = sync.Once{}
	defaultRegistry = nil
}
