package memstore

import (
	"context"

	"github.com/goccy/go-json"
	kafka "github.com/segmentio/kafka-go"

	"github.com/ldpworks/ldprepo/logger"
	"github.com/ldpworks/ldprepo/services"
)

// EventSink is an in-memory fire-and-forget services.EventService, the
// local-development/test stand-in for the Kafka-backed sink below. Every
// emitted event is appended to a bounded channel a test can drain.
type EventSink struct {
	events chan services.Event
}

// NewEventSink returns an EventSink buffering up to capacity pending events.
func NewEventSink(capacity int) *EventSink {
	return &EventSink{events: make(chan services.Event, capacity)}
}

var _ services.EventService = (*EventSink)(nil)

// Emit implements services.EventService. A full buffer drops the event
// rather than blocking the caller, matching §4.8's "failures must not affect
// the HTTP response".
func (s *EventSink) Emit(ctx context.Context, event services.Event) {
	select {
	case s.events <- event:
	default:
		logger.FromContext(ctx).Warn("event sink buffer full, dropping event")
	}
}

// Drain removes and returns every event currently buffered, for test
// assertions.
func (s *EventSink) Drain() []services.Event {
	var out []services.Event
	for {
		select {
		case e := <-s.events:
			out = append(out, e)
		default:
			return out
		}
	}
}

// KafkaEventSink is a services.EventService backed by segmentio/kafka-go,
// writing one message per emitted event to a configured topic — the same
// asynchronous, at-most-once fan-out shape the ambient stack uses for its own
// outbox-driven notification pipeline, here sourced directly from the HTTP
// request path instead of a SQL outbox poller.
type KafkaEventSink struct {
	writer *kafka.Writer
}

// NewKafkaEventSink constructs a KafkaEventSink writing to topic on brokers.
func NewKafkaEventSink(brokers []string, topic string) *KafkaEventSink {
	return &KafkaEventSink{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
			Async:    true,
		},
	}
}

// Emit implements services.EventService.
func (s *KafkaEventSink) Emit(ctx context.Context, event services.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("cannot marshal event")
		return
	}
	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Resource),
		Value: payload,
	})
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("cannot write event to kafka")
	}
}

// Close releases the underlying Kafka writer's connections.
func (s *KafkaEventSink) Close() error {
	return s.writer.Close()
}
