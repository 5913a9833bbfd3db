package event

import (
	"context"
	"log/slog"

	"github.com/FaysilAlshareef/TalabatProject/internal/gateway"
	"github.com/FaysilAlshareef/TalabatProject/pkg/kafka"
)

// NotificationHandler reconciles one payment notification with the order it
// belongs to. Implemented by the payment reconciler.
type NotificationHandler interface {
	HandlePaymentNotification(ctx context.Context, n *gateway.Notification) error
}

// NewNotificationConsumer builds the intake consumer for payment
// notifications. Messages with payloads that cannot be decoded are dropped
// after logging; everything else is deduplicated by event id and handed to
// the reconciler, whose own idempotence covers provider redeliveries that
// arrive under fresh event ids.
func NewNotificationConsumer(
	cfg kafka.ConsumerConfig,
	handler NotificationHandler,
	store kafka.IdempotencyStore,
	log *slog.Logger,
) *kafka.Consumer {
	relay := func(ctx context.Context, event *kafka.Event) error {
		var n gateway.Notification
		if err := event.UnmarshalData(&n); err != nil {
			log.ErrorContext(ctx, "undecodable payment notification dropped",
				slog.String("event_id", event.EventID),
				slog.String("error", err.Error()),
			)
			return nil
		}
		if n.IntentID == "" {
			log.WarnContext(ctx, "payment notification without intent id dropped",
				slog.String("event_id", event.EventID),
			)
			return nil
		}
		return handler.HandlePaymentNotification(ctx, &n)
	}

	return kafka.NewConsumer(cfg, kafka.IdempotentHandler(store, relay, log), log)
}
