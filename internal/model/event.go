package model

const (
	// EventChange fires once after any attribute changed in a Set call.
	EventChange = "change"

	// EventDestroy fires when the model is destroyed.
	EventDestroy = "destroy"
)

// ChangeEvent returns the event name fired when attr changes.
func ChangeEvent(attr string) string {
	return EventChange + ":" + attr
}

// Event is the payload delivered to model event handlers.
type Event struct {
	Model    *Model
	Value    any
	Previous any
	Name     string
	Attr     string
}
