// Package messaging publishes domain events to Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/fintrack-backend/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// productRegisteredMessage is the wire format of ProductRegisteredEvent
type productRegisteredMessage struct {
	Type         string    `json:"type"`
	ProductID    string    `json:"productId"`
	Name         string    `json:"name"`
	Ticker       string    `json:"ticker"`
	CurrencyCode string    `json:"currencyCode"`
	OccurredOn   time.Time `json:"occurredOn"`
}

// priceUpdatedMessage is the wire format of ProductPriceUpdatedEvent
type priceUpdatedMessage struct {
	Type       string          `json:"type"`
	ProductID  string          `json:"productId"`
	Ticker     string          `json:"ticker"`
	Price      decimal.Decimal `json:"price"`
	Source     string          `json:"source"`
	Date       time.Time       `json:"date"`
	OccurredOn time.Time       `json:"occurredOn"`
}

// KafkaPublisher implements domain.EventPublisher. Each event type goes to
// its own topic, <prefix>.<event type>, keyed by product ID.
type KafkaPublisher struct {
	writer messageWriter
	prefix string
	logger logrus.FieldLogger
}

// NewKafkaPublisher creates a publisher writing to brokers
func NewKafkaPublisher(brokers []string, topicPrefix string, logger logrus.FieldLogger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            3,
		WriteTimeout:           5 * time.Second,
	}
	return newKafkaPublisher(writer, topicPrefix, logger)
}

func newKafkaPublisher(writer messageWriter, topicPrefix string, logger logrus.FieldLogger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, prefix: topicPrefix, logger: logger}
}

// Topic returns the topic an event type is published to
func (p *KafkaPublisher) Topic(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

func (p *KafkaPublisher) PublishProductRegistered(ctx context.Context, event domain.ProductRegisteredEvent) error {
	return p.send(ctx, domain.ProductRegisteredEventType, event.ProductID.String(), productRegisteredMessage{
		Type:         domain.ProductRegisteredEventType,
		ProductID:    event.ProductID.String(),
		Name:         event.Name,
		Ticker:       event.Ticker,
		CurrencyCode: event.CurrencyCode,
		OccurredOn:   event.OccurredOn,
	})
}

func (p *KafkaPublisher) PublishProductPriceUpdated(ctx context.Context, event domain.ProductPriceUpdatedEvent) error {
	return p.send(ctx, domain.ProductPriceUpdatedEventType, event.ProductID.String(), priceUpdatedMessage{
		Type:       domain.ProductPriceUpdatedEventType,
		ProductID:  event.ProductID.String(),
		Ticker:     event.Ticker,
		Price:      event.Price,
		Source:     event.Source,
		Date:       event.Date,
		OccurredOn: event.OccurredOn,
	})
}

func (p *KafkaPublisher) send(ctx context.Context, eventType, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	topic := p.Topic(eventType)
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	p.logger.WithFields(logrus.Fields{"topic": topic, "key": key}).Debug("event published")
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
