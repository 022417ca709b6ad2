// internal/infrastructure/messaging/kafka/publisher.go
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jupani/storefront/internal/config"
	"github.com/jupani/storefront/internal/domain/order"
	"github.com/jupani/storefront/internal/pkg/money"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"

	writeTimeout = 5 * time.Second
)

// MessageWriter is the subset of kafka.Writer used by the publisher
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderEvent is the payload published for every order change
type OrderEvent struct {
	EventType      string            `json:"eventType"`
	OrderID        string            `json:"orderId"`
	OrderNumber    string            `json:"orderNumber"`
	Status         order.OrderStatus `json:"status"`
	PreviousStatus order.OrderStatus `json:"previousStatus,omitempty"`
	CustomerName   string            `json:"customerName"`
	ShippingMethod string            `json:"shippingMethod"`
	ItemCount      int               `json:"itemCount"`
	Total          int64             `json:"total"`
	TotalReais     string            `json:"totalReais"`
	WhatsAppURL    string            `json:"whatsappUrl,omitempty"`
	OccurredAt     time.Time         `json:"occurredAt"`
}

// Publisher writes order events to Kafka keyed by order ID
type Publisher struct {
	writer MessageWriter
	logger *logrus.Logger
}

// NewPublisher creates a publisher for the configured brokers and topic
func NewPublisher(cfg *config.Config, logger *logrus.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Kafka.Brokers...),
		Topic:                  cfg.Kafka.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
		RequiredAcks:           kafka.RequireOne,
	}
	return NewPublisherWithWriter(w, logger)
}

// NewPublisherWithWriter creates a publisher on top of an existing writer
func NewPublisherWithWriter(w MessageWriter, logger *logrus.Logger) *Publisher {
	return &Publisher{writer: w, logger: logger}
}

// NotifyOrderPlaced publishes an order.placed event
func (p *Publisher) NotifyOrderPlaced(ctx context.Context, placed *order.Order, whatsappURL string) error {
	event := newEvent(EventOrderPlaced, placed)
	event.WhatsAppURL = whatsappURL
	return p.publish(ctx, event)
}

// PublishStatusChanged publishes an order.status_changed event
func (p *Publisher) PublishStatusChanged(ctx context.Context, changed *order.Order, from order.OrderStatus) error {
	event := newEvent(EventOrderStatusChanged, changed)
	event.PreviousStatus = from
	return p.publish(ctx, event)
}

// Close flushes pending messages and closes the writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func newEvent(eventType string, o *order.Order) OrderEvent {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}

	return OrderEvent{
		EventType:      eventType,
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		Status:         o.Status,
		CustomerName:   o.CustomerName,
		ShippingMethod: o.ShippingMethod,
		ItemCount:      count,
		Total:          o.Total,
		TotalReais:     money.ToDecimal(o.Total).StringFixed(2),
		OccurredAt:     time.Now().UTC(),
	}
}

func (p *Publisher) publish(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.EventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.EventType, err)
	}

	p.logger.WithFields(logrus.Fields{
		"event_type": event.EventType,
		"order_id":   event.OrderID,
	}).Debug("Order event published")
	return nil
}
