package zone

import "slices"

// EventKind identifies a zone crossing.
type EventKind string

const (
	EventEnter EventKind = "enter"
	EventExit  EventKind = "exit"
)

// Event is emitted when an actor crosses a zone boundary.
type Event struct {
	Kind  EventKind
	Zone  Spec
	Actor string
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// exitsFirst stably moves exits ahead of enters for events queued at or after from.
func (q *EventQueue) exitsFirst(from int) {
	if q == nil || from < 0 || from >= len(q.items) {
		return
	}
	slices.SortStableFunc(q.items[from:], func(a, b Event) int {
		return kindOrder(a.Kind) - kindOrder(b.Kind)
	})
}

func kindOrder(k EventKind) int {
	if k == EventExit {
		return 0
	}
	return 1
}
