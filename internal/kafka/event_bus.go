package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderPlaced   = "order.placed"
	EventOrderDeleted  = "order.deleted"
	EventStockAdjusted = "stock.adjusted"
)

// Envelope wraps every published event.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventBus publishes domain events as JSON envelopes, one topic per event type.
type EventBus struct {
	writer messageWriter
	prefix string
}

// NewEventBus returns a publisher writing to brokers. Topics are named "<prefix>.<event type>".
func NewEventBus(brokers []string, topicPrefix string) *EventBus {
	return &EventBus{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		prefix: topicPrefix,
	}
}

// Topic returns the full topic name for an event type.
func (b *EventBus) Topic(eventType string) string {
	if b.prefix == "" {
		return eventType
	}
	return b.prefix + "." + eventType
}

func (b *EventBus) PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error {
	return b.publish(ctx, EventOrderPlaced, event.OrderID, event.OccurredAt, event)
}

func (b *EventBus) PublishOrderDeleted(ctx context.Context, event domain.OrderDeleted) error {
	return b.publish(ctx, EventOrderDeleted, event.OrderID, event.OccurredAt, event)
}

func (b *EventBus) PublishStockAdjusted(ctx context.Context, event domain.StockAdjusted) error {
	return b.publish(ctx, EventStockAdjusted, event.ProductID, event.OccurredAt, event)
}

func (b *EventBus) Close() error {
	return b.writer.Close()
}

func (b *EventBus) publish(ctx context.Context, eventType, key string, occurredAt time.Time, payload any) error {
	msg, err := b.message(eventType, key, occurredAt, payload)
	if err != nil {
		return err
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

func (b *EventBus) message(eventType, key string, occurredAt time.Time, payload any) (kafka.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}

	value, err := json.Marshal(Envelope{Type: eventType, OccurredAt: occurredAt, Data: data})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s envelope: %w", eventType, err)
	}

	return kafka.Message{
		Topic: b.Topic(eventType),
		Key:   []byte(key),
		Value: value,
		Time:  time.Now().UTC(),
	}, nil
}
