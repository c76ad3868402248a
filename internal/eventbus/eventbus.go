// Package eventbus is the in-process pub/sub channel between the planner
// and its observers. The controller publishes core/events values on the
// untyped bus; the MQTT feed delivers flight events over a typed one.
package eventbus

// Event is any value published on the untyped bus. The concrete event
// types live in core/events.
type Event any

// EventBus is the publishing capability handed to the controller.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus is the untyped bus used for mixed event streams.
type Bus = TypedBus[Event]

// New creates an untyped bus.
func New() *Bus { return NewTyped[Event]() }
