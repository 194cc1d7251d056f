// Package store deduplicates model instances by identifier.
//
// A Registry maps model names to Caches. Each Cache wraps one Blueprint and hands
// out a Constructor: building through it with attributes that carry a known
// identifier returns the instance already tracked under that identifier, with the
// new attributes merged in, instead of a fresh one.
//
//	users, err := store.Wrap[*model.Model](registry, model.NewSchema("user"), "users")
//	a := users.New(model.Attributes{"id": 1, "name": "ada"}, model.Options{})
//	b := users.New(model.Attributes{"id": 1, "age": 36}, model.Options{})
//	// a == b
//
// The registry publishes "add", "update" and "remove" events for every cache it
// owns. Caches are not synchronized; callers serialize access to a cache.
package store

import (
	"github.com/ekisa-team/modelstore/internal/event"
	"github.com/ekisa-team/modelstore/internal/model"
)

// Instance is the capability set a cached value must provide.
type Instance interface {
	// ID returns the raw identifier, or nil when there is none.
	ID() any

	// IsNew reports whether the instance has no identifier yet.
	IsNew() bool

	// Set merges attributes into the instance.
	Set(attrs model.Attributes, opts model.Options)

	// On subscribes to an instance event such as model.EventDestroy.
	On(name string, fn func(model.Event)) event.Subscription

	// Once subscribes to the next occurrence of an instance event.
	Once(name string, fn func(model.Event)) event.Subscription
}

// Blueprint builds instances of one model type.
type Blueprint[T Instance] interface {
	// IDAttribute returns the attribute name holding the identifier.
	IDAttribute() string

	// New constructs an instance. It must not fire instance events.
	New(attrs model.Attributes, opts model.Options) T
}

// Classifier is implemented by blueprints that can tell whether a value was
// built from them. Constructor.InstanceOf uses it when present.
type Classifier[T Instance] interface {
	Owns(v T) bool
}
