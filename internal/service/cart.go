// Package service implements the checkout business logic: carts, catalog
// reads, order creation and payment reconciliation.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FaysilAlshareef/TalabatProject/internal/domain"
	"github.com/FaysilAlshareef/TalabatProject/internal/repository"
	"github.com/FaysilAlshareef/TalabatProject/internal/specification"
	apperrors "github.com/FaysilAlshareef/TalabatProject/pkg/errors"
	"github.com/FaysilAlshareef/TalabatProject/pkg/validator"
)

// Cart limits.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single item.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct items in a cart.
	MaxItemsPerCart = 50
)

// CartItemInput is one line of a cart update.
type CartItemInput struct {
	ProductID  int64  `json:"product_id" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required"`
	Price      int64  `json:"price" validate:"gte=0"`
	Quantity   int    `json:"quantity" validate:"required,gte=1"`
	PictureURL string `json:"picture_url"`
	Brand      string `json:"brand"`
	Type       string `json:"type"`
}

// UpdateCartInput replaces the cart's contents wholesale. The storefront
// owns the cart state and sends the full cart on every change.
type UpdateCartInput struct {
	ID    string          `json:"id" validate:"required"`
	Items []CartItemInput `json:"items" validate:"dive"`
}

// CartService implements the business logic for cart operations. Carts are
// cache-only: they live in Redis with a TTL and nothing else.
type CartService struct {
	carts  repository.CartStore
	store  repository.Store
	logger *slog.Logger
}

// NewCartService creates a cart service.
func NewCartService(carts repository.CartStore, store repository.Store, logger *slog.Logger) *CartService {
	return &CartService{carts: carts, store: store, logger: logger}
}

// GetCart returns the cart with the given id. Unknown and expired ids get a
// fresh empty cart instead of an error, so the storefront never has to
// special-case expiry.
func (s *CartService) GetCart(ctx context.Context, id string) (*domain.Cart, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("cart id is required")
	}

	cart, err := s.carts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(id), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// UpdateCart validates the input and overwrites the stored cart. Last write
// wins; the checkout re-reads authoritative prices anyway.
func (s *CartService) UpdateCart(ctx context.Context, input UpdateCartInput) (*domain.Cart, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}
	if len(input.Items) > MaxItemsPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart cannot hold more than %d distinct items", MaxItemsPerCart))
	}

	items := make([]domain.CartItem, len(input.Items))
	for i, item := range input.Items {
		if item.Quantity > MaxQuantityPerItem {
			return nil, apperrors.InvalidInput(fmt.Sprintf("quantity for product %d exceeds the limit of %d", item.ProductID, MaxQuantityPerItem))
		}
		items[i] = domain.CartItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			PictureURL: item.PictureURL,
			Brand:      item.Brand,
			Type:       item.Type,
		}
	}

	// Preserve checkout state already attached to the cart.
	cart := domain.NewCart(input.ID)
	if existing, err := s.carts.Get(ctx, input.ID); err == nil {
		cart = existing
	}
	cart.Items = items

	saved, err := s.carts.Put(ctx, cart)
	if err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}
	return saved, nil
}

// SetDeliveryMethod attaches a delivery method to the cart so the payment
// intent can include the shipping price before the order exists.
func (s *CartService) SetDeliveryMethod(ctx context.Context, cartID string, deliveryMethodID int64) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	method, err := s.store.NewUnitOfWork().DeliveryMethods().FirstBySpec(ctx,
		specification.New().Where("id", specification.OpEq, deliveryMethodID))
	if err != nil {
		return nil, err
	}

	cart.DeliveryMethodID = method.ID
	cart.ShippingPrice = method.Price

	saved, err := s.carts.Put(ctx, cart)
	if err != nil {
		return nil, fmt.Errorf("set delivery method: %w", err)
	}
	return saved, nil
}

// DeleteCart removes the cart and reports whether it existed.
func (s *CartService) DeleteCart(ctx context.Context, id string) (bool, error) {
	existed, err := s.carts.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete cart: %w", err)
	}
	return existed, nil
}
