// Package redis implements the cache-backed basket store.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FaysilAlshareef/TalabatProject/internal/domain"
	apperrors "github.com/FaysilAlshareef/TalabatProject/pkg/errors"
)

const keyPrefix = "basket:"

// DefaultTTL is the basket lifetime applied when no TTL is configured.
const DefaultTTL = 48 * time.Hour

// CartStore implements repository.CartStore using Redis. Each cart is one
// JSON value under basket:<id>; Redis expiry is the only source of cart
// lifetime, refreshed on every write.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStore creates a Redis-backed cart store.
func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CartStore{client: client, ttl: ttl}
}

// Get retrieves a cart by id. Absent and expired carts are indistinguishable
// and both surface as not found.
func (s *CartStore) Get(ctx context.Context, id string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", id)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return &cart, nil
}

// Put stores the cart, overwriting any previous value and restarting its
// TTL. Last write wins.
func (s *CartStore) Put(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	data, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+cart.ID, data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("redis set cart: %w", err)
	}

	return cart, nil
}

// Delete removes the cart and reports whether it existed.
func (s *CartStore) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.client.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("redis del cart: %w", err)
	}
	return removed > 0, nil
}
