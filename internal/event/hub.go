package event

import "sync"

// All is the wildcard event name. Handlers registered under it receive every
// triggered event, after the handlers registered for the specific name.
const All = "all"

// Subscription identifies a handler registration so it can be removed with Off.
type Subscription struct {
	name string
	id   uint64
}

// Name returns the event name the subscription listens to.
func (s Subscription) Name() string {
	return s.name
}

type handler[T any] struct {
	fn    func(T)
	id    uint64
	once  bool
	fired bool
}

// Hub dispatches named events carrying a payload of type T.
// Handlers run synchronously on the triggering goroutine, in subscription order.
// A panicking handler aborts the dispatch and propagates to the Trigger caller.
type Hub[T any] struct {
	handlers map[string][]*handler[T]
	nextID   uint64
	mu       sync.Mutex
}

// On registers fn for events named name.
func (h *Hub[T]) On(name string, fn func(T)) Subscription {
	return h.subscribe(name, fn, false)
}

// Once registers fn for the next event named name only.
// The registration is removed before fn runs.
func (h *Hub[T]) Once(name string, fn func(T)) Subscription {
	return h.subscribe(name, fn, true)
}

func (h *Hub[T]) subscribe(name string, fn func(T), once bool) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.handlers == nil {
		h.handlers = make(map[string][]*handler[T])
	}

	h.nextID++
	h.handlers[name] = append(h.handlers[name], &handler[T]{fn: fn, id: h.nextID, once: once})

	return Subscription{name: name, id: h.nextID}
}

// Off removes the registration identified by sub.
// It reports whether a registration was removed.
func (h *Hub[T]) Off(sub Subscription) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.remove(sub.name, sub.id)
}

// OffAll removes every registration for name.
func (h *Hub[T]) OffAll(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.handlers, name)
}

// Len returns the number of registrations for name.
func (h *Hub[T]) Len(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.handlers[name])
}

// Trigger invokes the handlers registered for name, then the All handlers.
func (h *Hub[T]) Trigger(name string, payload T) {
	for _, hd := range h.claim(name) {
		hd.fn(payload)
	}

	if name == All {
		return
	}

	for _, hd := range h.claim(All) {
		hd.fn(payload)
	}
}

// claim snapshots the handlers for name and detaches fired once-handlers,
// so handlers may subscribe or unsubscribe while the dispatch is running.
func (h *Hub[T]) claim(name string) []*handler[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.handlers[name]
	if len(list) == 0 {
		return nil
	}

	snapshot := make([]*handler[T], 0, len(list))
	for _, hd := range list {
		if hd.once {
			if hd.fired {
				continue
			}
			hd.fired = true
			h.remove(name, hd.id)
		}
		snapshot = append(snapshot, hd)
	}

	return snapshot
}

// remove must be called with h.mu held.
func (h *Hub[T]) remove(name string, id uint64) bool {
	list := h.handlers[name]
	for i, hd := range list {
		if hd.id != id {
			continue
		}

		rest := make([]*handler[T], 0, len(list)-1)
		rest = append(rest, list[:i]...)
		rest = append(rest, list[i+1:]...)

		if len(rest) == 0 {
			delete(h.handlers, name)
		} else {
			h.handlers[name] = rest
		}

		return true
	}

	return false
}
