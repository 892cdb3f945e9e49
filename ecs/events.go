package ecs

// EventType names what happened.
type EventType string

const (
	EventTransition     EventType = "transition"
	EventTargetAcquired EventType = "target_acquired"
	EventTargetLost     EventType = "target_lost"
	EventReloaded       EventType = "reloaded"
)

// Event is something a system reports for drivers and overlays to read.
type Event struct {
	Type   EventType
	Entity Entity
	Data   any
}

// TransitionEvent is the payload of EventTransition.
type TransitionEvent struct {
	Machine string
	From    string
	To      string
}

// EventQueue is a FIFO of the current tick's events.
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

// Events returns the queued events without clearing them.
func (q *EventQueue) Events() []Event {
	if q == nil {
		return nil
	}
	return q.items
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

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
