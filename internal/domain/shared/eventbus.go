package shared

import "context"

// EventHandler consumes domain events, typically to produce
// notifications or derived records.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes names the events the handler wants. Empty means all.
	EventTypes() []string
}

// EventPublisher is the side application services see: publish the
// events an aggregate raised once its save committed.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber registers handlers. Omitting eventTypes subscribes
// the handler to the types it declares itself.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
}

// EventBus wires both sides together.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
