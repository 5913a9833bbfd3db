package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FaysilAlshareef/TalabatProject/internal/domain"
	"github.com/FaysilAlshareef/TalabatProject/internal/event"
	"github.com/FaysilAlshareef/TalabatProject/internal/gateway"
	"github.com/FaysilAlshareef/TalabatProject/internal/repository"
	"github.com/FaysilAlshareef/TalabatProject/internal/specification"
	apperrors "github.com/FaysilAlshareef/TalabatProject/pkg/errors"
)

// PaymentReconciler keeps the external payment intent in sync with the cart
// before checkout, and settles orders when the provider reports an outcome.
type PaymentReconciler struct {
	store     repository.Store
	carts     repository.CartStore
	gateway   gateway.Gateway
	publisher event.Publisher
	currency  string
	logger    *slog.Logger
}

// NewPaymentReconciler creates a payment reconciler.
func NewPaymentReconciler(
	store repository.Store,
	carts repository.CartStore,
	gw gateway.Gateway,
	publisher event.Publisher,
	currency string,
	logger *slog.Logger,
) *PaymentReconciler {
	return &PaymentReconciler{
		store:     store,
		carts:     carts,
		gateway:   gw,
		publisher: publisher,
		currency:  currency,
		logger:    logger,
	}
}

// CreateOrUpdatePaymentIntent makes the provider-side intent match the
// cart's current total. Item prices and the shipping price are re-read from
// the catalog first, so a stale cart cannot buy at old prices. The cart is
// written back only after the provider call succeeds; a gateway failure
// leaves it exactly as it was.
func (s *PaymentReconciler) CreateOrUpdatePaymentIntent(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cannot create a payment intent for an empty cart")
	}

	uow := s.store.NewUnitOfWork()

	for i := range cart.Items {
		product, err := uow.Products().FirstBySpec(ctx,
			specification.New().Where("id", specification.OpEq, cart.Items[i].ProductID))
		if err != nil {
			return nil, err
		}
		if cart.Items[i].Price != product.Price {
			cart.Items[i].Price = product.Price
		}
	}

	if cart.DeliveryMethodID != 0 {
		method, err := uow.DeliveryMethods().FirstBySpec(ctx,
			specification.New().Where("id", specification.OpEq, cart.DeliveryMethodID))
		if err != nil {
			return nil, err
		}
		cart.ShippingPrice = method.Price
	}

	amount := cart.ItemsTotal() + cart.ShippingPrice

	var intent *gateway.Intent
	if cart.PaymentIntentID == "" {
		intent, err = s.gateway.CreateIntent(ctx, amount, s.currency)
	} else {
		intent, err = s.gateway.UpdateIntent(ctx, cart.PaymentIntentID, amount)
	}
	if err != nil {
		return nil, err
	}

	cart.PaymentIntentID = intent.ID
	if intent.ClientSecret != "" {
		cart.ClientSecret = intent.ClientSecret
	}

	saved, err := s.carts.Put(ctx, cart)
	if err != nil {
		return nil, fmt.Errorf("store cart with payment intent: %w", err)
	}
	return saved, nil
}

// HandlePaymentNotification settles the order matching the notification's
// payment intent. Notifications for unknown intents are dropped: intents get
// created for carts that never finish checkout. Redeliveries for an already
// settled order are absorbed.
func (s *PaymentReconciler) HandlePaymentNotification(ctx context.Context, n *gateway.Notification) error {
	if n == nil || n.IntentID == "" {
		return apperrors.InvalidInput("notification missing payment intent id")
	}

	var status string
	switch n.Outcome {
	case gateway.OutcomeSucceeded:
		status = domain.OrderStatusPaymentReceived
	case gateway.OutcomeFailed:
		status = domain.OrderStatusPaymentFailed
	default:
		return apperrors.InvalidInput(fmt.Sprintf("unknown payment outcome %q", n.Outcome))
	}

	uow := s.store.NewUnitOfWork()
	order, err := uow.Orders().FirstBySpec(ctx,
		specification.New().Where("payment_intent_id", specification.OpEq, n.IntentID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.InfoContext(ctx, "payment notification for unknown intent dropped",
				slog.String("payment_intent_id", n.IntentID),
				slog.String("outcome", n.Outcome),
			)
			return nil
		}
		return err
	}

	if order.IsTerminal() {
		if order.Status != status {
			s.logger.WarnContext(ctx, "conflicting payment notification for settled order absorbed",
				slog.Int64("order_id", order.ID),
				slog.String("order_status", order.Status),
				slog.String("outcome", n.Outcome),
			)
		}
		return nil
	}

	order.Status = status
	uow.Orders().Update(order)
	if _, err := uow.Complete(ctx); err != nil {
		return err
	}

	var publishErr error
	if status == domain.OrderStatusPaymentReceived {
		publishErr = s.publisher.OrderPaymentReceived(ctx, order)
	} else {
		publishErr = s.publisher.OrderPaymentFailed(ctx, order)
	}
	if publishErr != nil {
		s.logger.ErrorContext(ctx, "failed to publish order payment event",
			slog.Int64("order_id", order.ID),
			slog.String("error", publishErr.Error()),
		)
	}

	return nil
}
