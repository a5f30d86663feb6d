package bus

import "time"

// Wildcard subscribes a handler to every event type.
const Wildcard = "*"

// EventBus is a thread-safe, in-process pub/sub bus carrying scene and
// replication events.
//
// Delivery is synchronous: Publish calls handlers in the caller goroutine, so
// handlers should be quick or hand work off. Handler errors are joined and
// returned from Publish.
type EventBus interface {
	// Publish delivers the event to subscribers of event.Type() and to wildcard
	// subscribers.
	Publish(event Event) error
	// Subscribe registers a handler for an event type, or for every type when
	// eventType is Wildcard.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Nil is a no-op.
	Unsubscribe(Subscription) error

	AddObserver(obs EventBusObserver)
	RemoveObserver(obs EventBusObserver)
	// GetMetrics returns a snapshot of the counters. Counters only move while
	// at least one observer is registered.
	GetMetrics() EventBusMetrics
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler is invoked once per delivered event.
type EventHandler func(event Event) error

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is notified about deliveries. Observers should return quickly.
type EventBusObserver interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, handlers int, err error, durationMicros int64)
}

type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
