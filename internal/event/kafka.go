package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Envelope is the JSON value of every published message.
type Envelope struct {
	EventName   string         `json:"event_name"`
	AggregateID string         `json:"aggregate_id"`
	OccurredOn  time.Time      `json:"occurred_on"`
	Payload     map[string]any `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to one topic keyed by aggregate id, so events of
// one aggregate stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
	return newKafkaPublisher(writer, logger)
}

func newKafkaPublisher(writer messageWriter, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Dispatch publishes events as one batch.
func (p *KafkaPublisher) Dispatch(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := toMessage(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("writer.WriteMessages: %w", err)
	}

	p.logger.Info("published events", zap.Int("count", len(msgs)))

	return nil
}

// Handle adapts the publisher to a Bus subscription.
func (p *KafkaPublisher) Handle(ctx context.Context, e domain.Event) error {
	return p.Dispatch(ctx, e)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(e domain.Event) (kafka.Message, error) {
	data, err := json.Marshal(Envelope{
		EventName:   e.EventName(),
		AggregateID: e.AggregateID(),
		OccurredOn:  e.OccurredOn(),
		Payload:     e.Primitives(),
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("json.Marshal[%s]: %w", e.EventName(), err)
	}

	return kafka.Message{
		Key:   []byte(e.AggregateID()),
		Value: data,
		Time:  e.OccurredOn(),
		Headers: []kafka.Header{
			{Key: "event_name", Value: []byte(e.EventName())},
		},
	}, nil
}

var _ port.EventDispatcher = (*KafkaPublisher)(nil)
