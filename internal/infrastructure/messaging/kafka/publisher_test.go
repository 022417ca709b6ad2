package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/jupani/storefront/internal/domain/order"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func placedOrder() *order.Order {
	return &order.Order{
		ID:             "0b6c3c2e-1111-4a4a-9c9c-000000000001",
		OrderNumber:    "JU-20240601-0B6C3C",
		Status:         order.OrderStatusPending,
		CustomerName:   "Maria",
		ShippingMethod: "DELIVERY",
		Total:          4700,
		Items: []order.OrderItem{
			{ProductID: "p-1", Quantity: 2},
			{ProductID: "p-2", Quantity: 1},
		},
	}
}

func TestNotifyOrderPlaced(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisherWithWriter(w, testLogger())

	require.NoError(t, p.NotifyOrderPlaced(context.Background(), placedOrder(), "https://wa.me/55?text=x"))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "0b6c3c2e-1111-4a4a-9c9c-000000000001", string(msg.Key))
	assert.Equal(t, []kafka.Header{{Key: "event_type", Value: []byte(EventOrderPlaced)}}, msg.Headers)

	var event OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, EventOrderPlaced, event.EventType)
	assert.Equal(t, 3, event.ItemCount)
	assert.Equal(t, int64(4700), event.Total)
	assert.Equal(t, "47.00", event.TotalReais)
	assert.Equal(t, "https://wa.me/55?text=x", event.WhatsAppURL)
	assert.Empty(t, event.PreviousStatus)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestPublishStatusChanged(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisherWithWriter(w, testLogger())

	o := placedOrder()
	o.Status = order.OrderStatusConfirmed
	require.NoError(t, p.PublishStatusChanged(context.Background(), o, order.OrderStatusPending))

	var event OrderEvent
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &event))
	assert.Equal(t, EventOrderStatusChanged, event.EventType)
	assert.Equal(t, order.OrderStatusConfirmed, event.Status)
	assert.Equal(t, order.OrderStatusPending, event.PreviousStatus)
	assert.Empty(t, event.WhatsAppURL)
}

func TestPublish_WrapsWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unavailable")}
	p := NewPublisherWithWriter(w, testLogger())

	err := p.NotifyOrderPlaced(context.Background(), placedOrder(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order.placed")
	assert.Contains(t, err.Error(), "broker unavailable")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}
