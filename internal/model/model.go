package model

import (
	"maps"
	"reflect"
	"slices"

	"github.com/ekisa-team/modelstore/internal/event"
	"github.com/ekisa-team/modelstore/internal/mapsafe"
)

// Attributes maps attribute names to values.
type Attributes = map[string]any

// Options controls how Set applies attributes.
type Options struct {
	// Silent suppresses change events.
	Silent bool

	// Unset removes the named attributes instead of assigning them.
	Unset bool
}

// Model is an attribute bag identified by its schema's id attribute.
// A Model is not safe for concurrent use.
type Model struct {
	schema    *Schema
	attrs     Attributes
	events    event.Hub[Event]
	destroyed bool
}

// Schema returns the schema the model was built from.
func (m *Model) Schema() *Schema {
	return m.schema
}

// ID returns the value of the id attribute, or nil when it is not set.
func (m *Model) ID() any {
	return m.attrs[m.schema.idAttribute]
}

// IsNew reports whether the model has no identifier yet.
func (m *Model) IsNew() bool {
	return m.ID() == nil
}

// Get returns the value of attr, or nil.
func (m *Model) Get(attr string) any {
	return m.attrs[attr]
}

// Has reports whether attr is set to a non-nil value.
func (m *Model) Has(attr string) bool {
	return m.attrs[attr] != nil
}

// Attributes returns a copy of the model's attributes.
func (m *Model) Attributes() Attributes {
	return maps.Clone(m.attrs)
}

// Set merges attrs into the model. Attributes not named in attrs are kept.
// Unless opts.Silent is set, a "change:<attr>" event fires for every attribute
// whose value changed, in attribute name order, followed by one "change" event.
func (m *Model) Set(attrs Attributes, opts Options) {
	if len(attrs) == 0 {
		return
	}

	changes := make([]Event, 0, len(attrs))
	for _, attr := range slices.Sorted(maps.Keys(attrs)) {
		prev, had := m.attrs[attr]

		if opts.Unset {
			if !had {
				continue
			}
			delete(m.attrs, attr)
			changes = append(changes, Event{Name: ChangeEvent(attr), Model: m, Attr: attr, Previous: prev})
			continue
		}

		value := attrs[attr]
		if had && reflect.DeepEqual(prev, value) {
			continue
		}
		m.attrs[attr] = value
		changes = append(changes, Event{Name: ChangeEvent(attr), Model: m, Attr: attr, Value: value, Previous: prev})
	}

	if opts.Silent || len(changes) == 0 {
		return
	}

	for _, change := range changes {
		m.events.Trigger(change.Name, change)
	}
	m.events.Trigger(EventChange, Event{Name: EventChange, Model: m})
}

// Unset removes attr from the model.
func (m *Model) Unset(attr string, opts Options) {
	opts.Unset = true
	m.Set(Attributes{attr: nil}, opts)
}

// Destroy marks the model destroyed and fires "destroy". Subsequent calls are no-ops.
func (m *Model) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true

	m.events.Trigger(EventDestroy, Event{Name: EventDestroy, Model: m})
}

// Destroyed reports whether Destroy has been called.
func (m *Model) Destroyed() bool {
	return m.destroyed
}

// On subscribes fn to the named model event.
func (m *Model) On(name string, fn func(Event)) event.Subscription {
	return m.events.On(name, fn)
}

// Once subscribes fn to the next occurrence of the named model event.
func (m *Model) Once(name string, fn func(Event)) event.Subscription {
	return m.events.Once(name, fn)
}

// Off removes a subscription made with On or Once.
func (m *Model) Off(sub event.Subscription) bool {
	return m.events.Off(sub)
}

// Trigger fires a model event by hand.
func (m *Model) Trigger(name string, ev Event) {
	ev.Name = name
	if ev.Model == nil {
		ev.Model = m
	}
	m.events.Trigger(name, ev)
}

// Value returns attr converted to T, or defaultValue when it is missing or of another type.
func Value[T any](m *Model, attr string, defaultValue T) T {
	return mapsafe.Get(m.attrs, attr, defaultValue)
}
