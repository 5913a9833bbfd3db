// Package event publishes order lifecycle events and consumes payment
// notifications.
package event

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/FaysilAlshareef/TalabatProject/internal/domain"
	"github.com/FaysilAlshareef/TalabatProject/pkg/kafka"
	"github.com/FaysilAlshareef/TalabatProject/pkg/logger"
)

// Topics.
const (
	TopicOrderEvents          = "order.events"
	TopicPaymentNotifications = "payment.notifications"
)

// Order event types.
const (
	TypeOrderCreated         = "order.created"
	TypeOrderPaymentReceived = "order.payment_received"
	TypeOrderPaymentFailed   = "order.payment_failed"
)

const source = "checkout"

// Publisher emits order lifecycle events. Publishing is best-effort at the
// call sites: a failed publish is logged, never surfaced to the buyer.
type Publisher interface {
	OrderCreated(ctx context.Context, order *domain.Order) error
	OrderPaymentReceived(ctx context.Context, order *domain.Order) error
	OrderPaymentFailed(ctx context.Context, order *domain.Order) error
}

// orderEventData is the payload carried by order lifecycle events.
type orderEventData struct {
	OrderID         int64  `json:"order_id"`
	BuyerEmail      string `json:"buyer_email"`
	Status          string `json:"status"`
	Total           int64  `json:"total"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
}

// Producer publishes order events to Kafka.
type Producer struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewProducer creates an order event producer.
func NewProducer(producer *kafka.Producer, log *slog.Logger) *Producer {
	return &Producer{producer: producer, logger: log}
}

// OrderCreated publishes an order.created event.
func (p *Producer) OrderCreated(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, TypeOrderCreated, order)
}

// OrderPaymentReceived publishes an order.payment_received event.
func (p *Producer) OrderPaymentReceived(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, TypeOrderPaymentReceived, order)
}

// OrderPaymentFailed publishes an order.payment_failed event.
func (p *Producer) OrderPaymentFailed(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, TypeOrderPaymentFailed, order)
}

func (p *Producer) publish(ctx context.Context, eventType string, order *domain.Order) error {
	data := orderEventData{
		OrderID:         order.ID,
		BuyerEmail:      order.BuyerEmail,
		Status:          order.Status,
		Total:           order.Total,
		PaymentIntentID: order.PaymentIntentID,
	}

	event, err := kafka.NewEvent(eventType, strconv.FormatInt(order.ID, 10), "order", source, data)
	if err != nil {
		return err
	}
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		event = event.WithCorrelationID(correlationID)
	}

	return p.producer.Publish(ctx, TopicOrderEvents, event)
}

// Nop is a Publisher that drops all events. Used when Kafka is disabled.
type Nop struct{}

func (Nop) OrderCreated(context.Context, *domain.Order) error         { return nil }
func (Nop) OrderPaymentReceived(context.Context, *domain.Order) error { return nil }
func (Nop) OrderPaymentFailed(context.Context, *domain.Order) error   { return nil }
