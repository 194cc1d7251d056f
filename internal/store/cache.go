package store

import (
	"github.com/ekisa-team/modelstore/internal/model"
)

// Entry is the type-erased view of a Cache held by a Registry.
type Entry interface {
	// Name returns the model name the cache was registered under.
	Name() string

	// Source returns the blueprint the cache wraps.
	Source() any

	// Len returns the number of tracked instances.
	Len() int

	// Has reports whether an instance is tracked under the raw identifier.
	Has(rawID any) bool

	// Factory returns the cache's wrapped constructor.
	Factory() Factory
}

// CacheOption configures a Cache.
type CacheOption func(*cacheOptions)

type cacheOptions struct {
	resolve Resolver
}

// WithResolver sets how raw identifiers are normalized into keys.
// The default is ResolveIdentity.
func WithResolver(resolve Resolver) CacheOption {
	return func(o *cacheOptions) {
		if resolve != nil {
			o.resolve = resolve
		}
	}
}

// Cache tracks at most one instance per identifier for a single blueprint.
type Cache[T Instance] struct {
	blueprint   Blueprint[T]
	publisher   Publisher
	resolve     Resolver
	instances   map[any]T
	constructor *Constructor[T]
	name        string
}

// NewCache creates a cache for bp that emits its events through pub.
// A nil pub discards events.
func NewCache[T Instance](bp Blueprint[T], name string, pub Publisher, opts ...CacheOption) *Cache[T] {
	o := cacheOptions{resolve: ResolveIdentity}
	for _, opt := range opts {
		opt(&o)
	}

	if pub == nil {
		pub = nopPublisher{}
	}

	c := &Cache[T]{
		blueprint: bp,
		publisher: pub,
		resolve:   o.resolve,
		instances: make(map[any]T),
		name:      name,
	}
	c.constructor = &Constructor[T]{cache: c}

	return c
}

// Name returns the model name.
func (c *Cache[T]) Name() string {
	return c.name
}

// Blueprint returns the wrapped blueprint.
func (c *Cache[T]) Blueprint() Blueprint[T] {
	return c.blueprint
}

// Source returns the wrapped blueprint as an untyped value.
func (c *Cache[T]) Source() any {
	return c.blueprint
}

// Constructor returns the wrapped constructor bound to this cache.
func (c *Cache[T]) Constructor() *Constructor[T] {
	return c.constructor
}

// Factory returns the wrapped constructor as a Factory.
func (c *Cache[T]) Factory() Factory {
	return c.constructor
}

// Len returns the number of tracked instances.
func (c *Cache[T]) Len() int {
	return len(c.instances)
}

// Has reports whether an instance is tracked under rawID.
func (c *Cache[T]) Has(rawID any) bool {
	_, ok := c.Lookup(rawID)
	return ok
}

// Lookup returns the instance tracked under rawID.
func (c *Cache[T]) Lookup(rawID any) (T, bool) {
	key, ok := c.key(rawID)
	if !ok {
		var zero T
		return zero, false
	}

	inst, ok := c.instances[key]
	return inst, ok
}

// Keys returns the resolved keys of all tracked instances, in no particular order.
func (c *Cache[T]) Keys() []any {
	keys := make([]any, 0, len(c.instances))
	for key := range c.instances {
		keys = append(keys, key)
	}

	return keys
}

// GetOrCreate returns the instance tracked under the identifier in attrs after
// merging attrs (and opts) into it, firing "update". Otherwise it builds a new
// instance from the blueprint and tracks it, immediately when it already has an
// identifier or as soon as it is assigned one.
func (c *Cache[T]) GetOrCreate(attrs model.Attributes, opts model.Options) T {
	if inst, ok := c.Lookup(attrs[c.blueprint.IDAttribute()]); ok {
		inst.Set(attrs, opts)
		c.publish(EventUpdate, inst)

		return inst
	}

	inst := c.blueprint.New(attrs, opts)
	c.trackOrDefer(inst)

	return inst
}

// Remove stops tracking the instance registered under inst's identifier and
// fires "remove". It is a no-op when nothing is tracked under that identifier.
func (c *Cache[T]) Remove(inst T) T {
	key, ok := c.key(inst.ID())
	if !ok {
		return inst
	}

	if _, tracked := c.instances[key]; !tracked {
		return inst
	}

	delete(c.instances, key)
	c.publish(EventRemove, inst)

	return inst
}

func (c *Cache[T]) trackOrDefer(inst T) {
	destroyed := false
	if inst.IsNew() {
		c.awaitID(inst, &destroyed)
	} else {
		c.register(inst, &destroyed)
	}

	inst.On(model.EventDestroy, func(model.Event) {
		destroyed = true
		c.Remove(inst)
	})
}

// awaitID tracks inst the first time its id attribute changes, unless inst was
// destroyed before that.
func (c *Cache[T]) awaitID(inst T, destroyed *bool) {
	inst.Once(model.ChangeEvent(c.blueprint.IDAttribute()), func(model.Event) {
		if *destroyed {
			return
		}
		c.register(inst, destroyed)
	})
}

// register tracks inst under its identifier. The first instance tracked under a
// key wins; a later one with the same key stays untracked.
func (c *Cache[T]) register(inst T, destroyed *bool) {
	key, ok := c.key(inst.ID())
	if !ok {
		c.awaitID(inst, destroyed)
		return
	}

	if _, tracked := c.instances[key]; tracked {
		return
	}

	c.instances[key] = inst
	c.publish(EventAdd, inst)
}

func (c *Cache[T]) key(rawID any) (any, bool) {
	if rawID == nil {
		return nil, false
	}

	key := c.resolve(rawID)
	return key, usableKey(key)
}

func (c *Cache[T]) publish(t EventType, inst T) {
	c.publisher.Trigger(Event{Type: t, Instance: inst, Cache: c})
}
