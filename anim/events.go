package anim

// EventType identifies an animator event.
type EventType string

const (
	EventClipChanged EventType = "clip_changed"
	EventClipLooped  EventType = "clip_looped"
	EventTrigger     EventType = "trigger"
)

// Event is emitted by an Animator.
type Event struct {
	Type     EventType
	Clip     string
	Previous string
	Param    string
}

// Handler receives animator events.
type Handler func(a *Animator, evt Event)

// EventEmitter dispatches events to handlers.
type EventEmitter struct {
	Handlers []Handler
}

// Emit sends evt to all handlers.
func (e *EventEmitter) Emit(a *Animator, evt Event) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(a, evt)
		}
	}
}
