// Package events broadcasts dispatch outcomes to in-process subscribers.
// Delivery is asynchronous; subscribers must not assume ordering across
// event types.
package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// Publish publishes ev to every subscriber of its concrete type.
// A nil Bus discards events.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	switch e := ev.(type) {
	case Fired:
		event.Publish(b.dispatcher, e)
	case Dropped:
		event.Publish(b.dispatcher, e)
	case Failed:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler, whose parameter type selects the events it
// receives. It returns an unsubscribe function; unknown handler types get a
// no-op.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(Fired):
		return event.Subscribe(b.dispatcher, h)
	case func(Dropped):
		return event.Subscribe(b.dispatcher, h)
	case func(Failed):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
