package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/segmentio/kafka-go"
)

const defaultWriteTimeout = 2 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Routes maps an event name to the topic it is written to.
type Routes map[string]string

// KafkaPublisher writes events keyed by aggregate id, so all events of an
// aggregate land on the same partition in order. Events without a route are
// dropped with a warning.
type KafkaPublisher struct {
	writer  messageWriter
	routes  Routes
	timeout time.Duration
	logger  *slog.Logger
}

func NewKafkaPublisher(brokers []string, routes Routes, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if len(routes) == 0 {
		return nil, errors.New("at least one kafka topic is required")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaPublisher(w, routes, logger), nil
}

func newKafkaPublisher(w messageWriter, routes Routes, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer:  w,
		routes:  routes,
		timeout: defaultWriteTimeout,
		logger:  logger.With("component", "kafka_publisher"),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		topic, ok := p.routes[event.EventName()]
		if !ok {
			p.logger.WarnContext(ctx, "no topic for event", "event", event.EventName())
			continue
		}

		envelope, err := NewEnvelope(event)
		if err != nil {
			return fmt.Errorf("encode %s: %w", event.EventName(), err)
		}
		value, err := json.Marshal(envelope)
		if err != nil {
			return fmt.Errorf("encode %s: %w", event.EventName(), err)
		}

		msgs = append(msgs, kafka.Message{
			Topic: topic,
			Key:   []byte(envelope.AggregateID),
			Value: value,
			Time:  envelope.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event", Value: []byte(envelope.Name)},
			},
		})
	}

	if len(msgs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d events: %w", len(msgs), err)
	}

	p.logger.DebugContext(ctx, "events published", "count", len(msgs))
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
