// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Navigation event types
const (
	SimStarted       Type = "sim_started"
	SimStopped       Type = "sim_stopped"
	NavReset         Type = "nav_reset"
	ProximityEntered Type = "proximity_entered"
	ProximityCleared Type = "proximity_cleared"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers, ok := b.handlers[event.GetType()]
	b.mu.RUnlock()

	if !ok {
		return
	}

	for _, handler := range handlers {
		handler(event)
	}
}

// ProximityEvent reports a crossing of the configured proximity-alert
// radius around the reference origin. Display-side only: subscribers must
// never feed it back into the physics state.
type ProximityEvent struct {
	BaseEvent
	Distance float64 // meters from the origin at the crossing tick
	Radius   float64 // configured alert radius in meters
}

// NewProximityEvent creates a proximity crossing event
func NewProximityEvent(eventType Type, source interface{}, distance, radius float64) *ProximityEvent {
	return &ProximityEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Distance: distance,
		Radius:   radius,
	}
}
