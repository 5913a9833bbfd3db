package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/FaysilAlshareef/TalabatProject/internal/domain"
	"github.com/FaysilAlshareef/TalabatProject/internal/event"
	"github.com/FaysilAlshareef/TalabatProject/internal/repository"
	"github.com/FaysilAlshareef/TalabatProject/internal/specification"
	apperrors "github.com/FaysilAlshareef/TalabatProject/pkg/errors"
	"github.com/FaysilAlshareef/TalabatProject/pkg/pagination"
	"github.com/FaysilAlshareef/TalabatProject/pkg/validator"
)

// CreateOrderInput holds the checkout parameters.
type CreateOrderInput struct {
	BuyerEmail       string         `json:"buyer_email" validate:"required,email"`
	CartID           string         `json:"cart_id" validate:"required"`
	DeliveryMethodID int64          `json:"delivery_method_id" validate:"required,gt=0"`
	ShipToAddress    domain.Address `json:"ship_to_address" validate:"required"`
}

// OrderOrchestrator builds orders out of carts. It re-reads every price from
// the catalog at checkout, snapshots it into the order, and commits the
// order together with its stock decrements in one unit of work.
type OrderOrchestrator struct {
	store     repository.Store
	carts     repository.CartStore
	publisher event.Publisher
	logger    *slog.Logger
}

// NewOrderOrchestrator creates an order orchestrator.
func NewOrderOrchestrator(store repository.Store, carts repository.CartStore, publisher event.Publisher, logger *slog.Logger) *OrderOrchestrator {
	return &OrderOrchestrator{store: store, carts: carts, publisher: publisher, logger: logger}
}

// CreateOrder turns the cart into an order: items are snapshotted at current
// catalog prices, the delivery method price is added on top, and stock is
// taken in the same transaction that persists the order. A retry carrying
// the same payment intent id replaces the earlier order instead of creating
// a second one, restoring the stock that order took. The cart is left
// untouched in every outcome; the storefront clears it after the payment
// settles.
func (s *OrderOrchestrator) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, input.CartID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.NotFound("cart", input.CartID)
	}

	uow := s.store.NewUnitOfWork()

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, cartItem := range cart.Items {
		product, err := uow.Products().FirstBySpec(ctx,
			specification.New().Where("id", specification.OpEq, cartItem.ProductID))
		if err != nil {
			return nil, err
		}
		if !product.InStock(cartItem.Quantity) {
			return nil, apperrors.InsufficientStock(product.Name)
		}
		items = append(items, domain.OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			PictureURL: product.PictureURL,
			Price:      product.Price,
			Quantity:   cartItem.Quantity,
		})
	}

	method, err := uow.DeliveryMethods().FirstBySpec(ctx,
		specification.New().Where("id", specification.OpEq, input.DeliveryMethodID))
	if err != nil {
		return nil, err
	}

	// A checkout retry under the same payment intent replaces the earlier
	// order. Its stock comes back before the new decrements are staged, so
	// the net effect is always exactly one order's worth.
	if cart.PaymentIntentID != "" {
		existing, err := uow.Orders().FirstBySpec(ctx,
			specification.New().
				Where("payment_intent_id", specification.OpEq, cart.PaymentIntentID).
				Include("items"))
		switch {
		case err == nil:
			for _, item := range existing.Items {
				uow.Products().RestoreStock(item.ProductID, item.Quantity)
			}
			uow.Orders().Remove(existing.ID)
		case !errors.Is(err, apperrors.ErrNotFound):
			return nil, err
		}
	}

	order := &domain.Order{
		BuyerEmail:       input.BuyerEmail,
		Status:           domain.OrderStatusPending,
		Items:            items,
		DeliveryMethodID: method.ID,
		DeliveryPrice:    method.Price,
		ShipToAddress:    input.ShipToAddress,
		PaymentIntentID:  cart.PaymentIntentID,
	}
	order.ComputeTotals()

	uow.Orders().Add(order)
	for _, item := range items {
		uow.Products().DecrementStock(item.ProductID, item.Quantity)
	}

	if _, err := uow.Complete(ctx); err != nil {
		return nil, err
	}

	if err := s.publisher.OrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the checkout if event publishing fails.
	}

	return order, nil
}

// GetOrder returns one order with its items and delivery method loaded.
func (s *OrderOrchestrator) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.store.NewUnitOfWork().Orders().FirstBySpec(ctx,
		specification.New().
			Where("id", specification.OpEq, id).
			Include("items").
			Include("delivery_method"))
}

// ListOrdersForBuyer returns one page of the buyer's orders, newest first,
// with items loaded.
func (s *OrderOrchestrator) ListOrdersForBuyer(ctx context.Context, buyerEmail string, page pagination.Params) (pagination.Result[domain.Order], error) {
	if buyerEmail == "" {
		return pagination.Result[domain.Order]{}, apperrors.InvalidInput("buyer email is required")
	}
	params := page.Normalize()

	query := specification.New().Where("buyer_email", specification.OpEq, buyerEmail)

	uow := s.store.NewUnitOfWork()
	count, err := uow.Orders().CountBySpec(ctx, query)
	if err != nil {
		return pagination.Result[domain.Order]{}, err
	}

	orders, err := uow.Orders().ListBySpec(ctx, query.
		Include("items").
		OrderByDescending("created_at").
		Paginate(params.Offset(), params.PerPage))
	if err != nil {
		return pagination.Result[domain.Order]{}, err
	}

	return pagination.NewResult(orders, int(count), params), nil
}

// ListDeliveryMethods returns all delivery methods, cheapest first.
func (s *OrderOrchestrator) ListDeliveryMethods(ctx context.Context) ([]domain.DeliveryMethod, error) {
	return s.store.NewUnitOfWork().DeliveryMethods().ListBySpec(ctx,
		specification.New().OrderBy("price"))
}
