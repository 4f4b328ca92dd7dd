package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"coffee-pos/pkg/logging"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes events to one topic, keyed so that events for the
// same order or product land on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *slog.Logger
}

// NewKafkaPublisher builds an async writer. Delivery failures surface only
// through the Completion callback and are logged on log.
func NewKafkaPublisher(brokers []string, topic string, log *slog.Logger) *KafkaPublisher {
	if log == nil {
		log = slog.Default()
	}
	p := &KafkaPublisher{log: log}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Completion:   p.delivered,
	}
	return p
}

func (p *KafkaPublisher) delivered(messages []kafka.Message, err error) {
	if err != nil {
		p.log.Error("kafka delivery failed", "topic", p.writer.Topic, "messages", len(messages), "error", err)
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		logging.FromContext(ctx).Error("marshal event", "type", evt.Type, "error", err)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.Key),
		Value: data,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(evt.Type)},
		},
	})
	if err != nil {
		logging.FromContext(ctx).Error("publish event", "type", evt.Type, "error", err)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
