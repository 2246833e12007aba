package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// EventSource is an aggregate that records domain events.
type EventSource interface {
	DomainEvents() []kernel.DomainEvent
	ClearDomainEvents()
}

// EventPublisher delivers committed domain events to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, events ...kernel.DomainEvent) error
}
