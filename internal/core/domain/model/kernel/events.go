package kernel

import (
	"slices"
	"time"
)

// DomainEvent is a fact raised by an aggregate while it changes state.
type DomainEvent interface {
	EventName() string
	AggregateID() UUID
	OccurredAt() time.Time
}

// EventRecorder collects the events an aggregate raises until the unit of
// work that persisted it has committed. Embed it in aggregate roots.
type EventRecorder struct {
	events []DomainEvent
}

func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// DomainEvents returns the recorded events in the order they were raised.
func (r *EventRecorder) DomainEvents() []DomainEvent {
	return slices.Clone(r.events)
}

func (r *EventRecorder) ClearDomainEvents() {
	r.events = nil
}
