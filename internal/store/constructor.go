package store

import "github.com/ekisa-team/modelstore/internal/model"

// Factory is the type-erased view of a Constructor.
type Factory interface {
	Name() string
	Construct(attrs model.Attributes, opts model.Options) Instance
	InstanceOf(v Instance) bool
}

// Constructor builds instances through its cache, so equal identifiers yield
// the same instance. It stands in for the blueprint it wraps.
type Constructor[T Instance] struct {
	cache *Cache[T]
}

// New returns the cached instance for the identifier in attrs, or a new one.
func (k *Constructor[T]) New(attrs model.Attributes, opts model.Options) T {
	return k.cache.GetOrCreate(attrs, opts)
}

// Construct is New returning an Instance.
func (k *Constructor[T]) Construct(attrs model.Attributes, opts model.Options) Instance {
	return k.New(attrs, opts)
}

// Name returns the model name of the underlying cache.
func (k *Constructor[T]) Name() string {
	return k.cache.name
}

// Cache returns the cache the constructor delegates to.
func (k *Constructor[T]) Cache() *Cache[T] {
	return k.cache
}

// Blueprint returns the wrapped blueprint.
func (k *Constructor[T]) Blueprint() Blueprint[T] {
	return k.cache.blueprint
}

// InstanceOf reports whether v has the wrapped blueprint's type and, when the
// blueprint is a Classifier, whether the blueprint owns it.
func (k *Constructor[T]) InstanceOf(v Instance) bool {
	t, ok := v.(T)
	if !ok {
		return false
	}

	if c, ok := k.cache.blueprint.(Classifier[T]); ok {
		return c.Owns(t)
	}

	return true
}
