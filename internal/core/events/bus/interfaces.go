package bus

import "time"

// EventBus is a thread-safe, in-process pub/sub bus for session events.
//
// Key characteristics:
// - Type-based fan-out: handlers subscribe by Event.Type(), or to every type with Wildcard.
// - Synchronous delivery: Publish calls handlers in the caller goroutine, in subscription order.
// - Error aggregation: handler errors are joined and returned from Publish.
//
// Handlers should be quick; the session publishes from its gesture path.
type EventBus interface {
	// Publish delivers the event to subscribers of event.Type() and to wildcard subscribers.
	Publish(event Event) error
	// Subscribe registers a handler for an event type and returns a cancel handle.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. It is safe to call with nil.
	Unsubscribe(Subscription) error
	// GetMetrics returns a snapshot of delivery counters.
	GetMetrics() EventBusMetrics
}

// Wildcard subscribes a handler to every event type.
const Wildcard = "*"

// Event is an immutable message transported by the EventBus.
type Event interface {
	ID() string
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler is invoked per delivered event.
type EventHandler func(event Event) error

type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
