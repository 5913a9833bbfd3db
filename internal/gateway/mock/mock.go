// Package mock provides an in-memory payment gateway for development and
// tests.
package mock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/FaysilAlshareef/TalabatProject/internal/gateway"
	apperrors "github.com/FaysilAlshareef/TalabatProject/pkg/errors"
)

// Gateway is a deterministic in-memory payment gateway. Intents live for
// the process lifetime; UpdateIntent on an unknown id fails like the real
// provider would.
type Gateway struct {
	mu      sync.Mutex
	intents map[string]*gateway.Intent

	// FailNext makes the next call return a payment failure. Tests use it
	// to exercise error paths.
	FailNext bool
}

// New creates a mock gateway.
func New() *Gateway {
	return &Gateway{intents: make(map[string]*gateway.Intent)}
}

// CreateIntent registers a new in-memory intent.
func (g *Gateway) CreateIntent(_ context.Context, amount int64, currency string) (*gateway.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.FailNext {
		g.FailNext = false
		return nil, apperrors.PaymentFailed("mock gateway failure")
	}

	id := "pi_" + uuid.New().String()
	intent := &gateway.Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Amount:       amount,
		Currency:     currency,
	}
	g.intents[id] = intent
	return intent, nil
}

// UpdateIntent changes the amount of an existing intent.
func (g *Gateway) UpdateIntent(_ context.Context, intentID string, amount int64) (*gateway.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.FailNext {
		g.FailNext = false
		return nil, apperrors.PaymentFailed("mock gateway failure")
	}

	intent, ok := g.intents[intentID]
	if !ok {
		return nil, apperrors.NotFound("payment intent", intentID)
	}
	intent.Amount = amount
	return intent, nil
}
