package eventbus

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
)

// LogPublisher records events in the service log. It is used when no broker
// is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "event_log")}
}

func (p *LogPublisher) Publish(ctx context.Context, events ...kernel.DomainEvent) error {
	for _, event := range events {
		p.logger.InfoContext(ctx, "domain event",
			"event", event.EventName(),
			"aggregateId", event.AggregateID().String(),
			"occurredAt", event.OccurredAt(),
		)
	}
	return nil
}
