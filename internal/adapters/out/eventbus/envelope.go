// Package eventbus delivers committed domain events: to Kafka in
// production, to the log when no broker is configured.
package eventbus

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Envelope is the wire form of one domain event.
type Envelope struct {
	Name        string          `json:"name"`
	AggregateID string          `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Payload     json.RawMessage `json:"payload"`
}

func NewEnvelope(event kernel.DomainEvent) (Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		Name:        event.EventName(),
		AggregateID: event.AggregateID().String(),
		OccurredAt:  event.OccurredAt().UTC(),
		Payload:     payload,
	}, nil
}
