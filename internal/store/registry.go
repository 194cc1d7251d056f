package store

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ekisa-team/modelstore/internal/event"
)

// generatedNamePrefix starts every name Wrap synthesizes.
const generatedNamePrefix = "store_"

var nameSeq atomic.Uint64

// Registry maps model names to caches and publishes their lifecycle events.
type Registry struct {
	caches map[string]Entry
	events event.Hub[Event]
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		caches: make(map[string]Entry),
	}
}

// Add registers a cache for bp under name and returns it. When name is already
// registered the existing cache is returned unchanged and bp is ignored.
func Add[T Instance](r *Registry, bp Blueprint[T], name string, opts ...CacheOption) (*Cache[T], error) {
	if name == "" {
		return nil, fmt.Errorf("%w: model name required", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.caches[name]; ok {
		c, ok := existing.(*Cache[T])
		if !ok {
			return nil, fmt.Errorf("%w: model %q is registered with blueprint %T", ErrInvalidArgument, name, existing.Source())
		}
		return c, nil
	}

	if bp == nil {
		return nil, fmt.Errorf("%w: blueprint required for model %q", ErrInvalidArgument, name)
	}

	c := NewCache(bp, name, r, opts...)
	r.caches[name] = c

	return c, nil
}

// Wrap registers bp like Add and returns the cache's constructor.
// An empty name is replaced by a generated, process-unique one.
func Wrap[T Instance](r *Registry, bp Blueprint[T], name string, opts ...CacheOption) (*Constructor[T], error) {
	if name == "" {
		name = r.uniqueName()
	}

	c, err := Add(r, bp, name, opts...)
	if err != nil {
		return nil, err
	}

	return c.Constructor(), nil
}

// CacheOf returns the typed cache registered under name.
func CacheOf[T Instance](r *Registry, name string) (*Cache[T], error) {
	entry, err := r.Cache(name)
	if err != nil {
		return nil, err
	}

	c, ok := entry.(*Cache[T])
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: model %q does not hold %T instances", ErrInvalidArgument, name, zero)
	}

	return c, nil
}

// Get returns the typed constructor registered under name.
func Get[T Instance](r *Registry, name string) (*Constructor[T], error) {
	c, err := CacheOf[T](r, name)
	if err != nil {
		return nil, err
	}

	return c.Constructor(), nil
}

// Cache returns the cache registered under name.
func (r *Registry) Cache(name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.caches[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return entry, nil
}

// Caches returns a copy of the name to cache mapping.
func (r *Registry) Caches() map[string]Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Clone(r.caches)
}

// Factory returns the constructor of the cache registered under name.
func (r *Registry) Factory(name string) (Factory, error) {
	entry, err := r.Cache(name)
	if err != nil {
		return nil, err
	}

	return entry.Factory(), nil
}

// Factories returns the constructor of every registered cache, keyed by name.
func (r *Registry) Factories() map[string]Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factories := make(map[string]Factory, len(r.caches))
	for name, entry := range r.caches {
		factories[name] = entry.Factory()
	}

	return factories
}

// Names returns the registered model names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.caches))
}

// Len returns the number of registered caches.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.caches)
}

// Remove unregisters name. Removing an unknown name is a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.caches, name)
}

// RemoveAll unregisters every cache. Event subscriptions are kept.
func (r *Registry) RemoveAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.caches)
}

// On subscribes fn to events of type t. Use EventAll for every type.
func (r *Registry) On(t EventType, fn func(Event)) event.Subscription {
	return r.events.On(string(t), fn)
}

// Once subscribes fn to the next event of type t.
func (r *Registry) Once(t EventType, fn func(Event)) event.Subscription {
	return r.events.Once(string(t), fn)
}

// Off removes a subscription made with On or Once.
func (r *Registry) Off(sub event.Subscription) bool {
	return r.events.Off(sub)
}

// Trigger publishes ev to the subscribers of ev.Type and of EventAll.
// Subscribers run before Trigger returns.
func (r *Registry) Trigger(ev Event) {
	r.events.Trigger(string(ev.Type), ev)
}

func (r *Registry) uniqueName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for {
		name := fmt.Sprintf("%s%d", generatedNamePrefix, nameSeq.Add(1))
		if _, taken := r.caches[name]; !taken {
			return name
		}
	}
}
