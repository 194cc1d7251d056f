package store

import "github.com/ekisa-team/modelstore/internal/event"

// EventType names a cache lifecycle event.
type EventType string

const (
	// EventAdd fires when an instance starts being tracked.
	EventAdd EventType = "add"

	// EventUpdate fires when attributes are merged into a tracked instance.
	EventUpdate EventType = "update"

	// EventRemove fires when a tracked instance stops being tracked.
	EventRemove EventType = "remove"

	// EventAll subscribes to every event type.
	EventAll EventType = event.All
)

// Event carries the instance an event is about and the cache that owns it.
type Event struct {
	Instance Instance
	Cache    Entry
	Type     EventType
}

// Publisher receives the events a cache emits.
type Publisher interface {
	Trigger(ev Event)
}

type nopPublisher struct{}

func (nopPublisher) Trigger(Event) {}
