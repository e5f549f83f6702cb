package shared

import "context"

// EventHandler reacts to committed domain events
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the events handled; empty means every event
	EventTypes() []string
}

// EventPublisher delivers events once the unit of work that raised them
// has committed. Services log a publish error and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is a publisher that handlers subscribe to
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...DomainEvent) error { return nil }
