// Package gateway abstracts the external payment service. The checkout flow
// creates and amends payment intents through it; the payment provider later
// reports the outcome asynchronously as a notification.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FaysilAlshareef/TalabatProject/pkg/errors"
)

// Notification outcomes reported by the payment provider.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Intent is a payment intent held by the external provider. Amount is in
// cents. The client secret is handed to the storefront so the buyer can
// confirm the payment directly with the provider.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// Notification is the provider's asynchronous report that a payment intent
// reached a final outcome.
type Notification struct {
	IntentID string `json:"intent_id"`
	Outcome  string `json:"outcome"`
}

// Gateway is the payment provider client used at checkout.
type Gateway interface {
	// CreateIntent registers a new payment intent for the given amount.
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)

	// UpdateIntent changes the amount of an existing intent, e.g. after
	// the cart or delivery method changed.
	UpdateIntent(ctx context.Context, intentID string, amount int64) (*Intent, error)
}

// notificationEnvelope mirrors the provider's webhook body: an event type
// plus the affected intent.
type notificationEnvelope struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// ParseNotification decodes a provider webhook payload into a Notification.
// Event types other than payment intent success or failure are rejected so
// callers can drop them early.
func ParseNotification(payload []byte) (*Notification, error) {
	var envelope notificationEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, errors.InvalidInput("malformed notification payload")
	}
	if envelope.Data.Object.ID == "" {
		return nil, errors.InvalidInput("notification missing payment intent id")
	}

	switch envelope.Type {
	case "payment_intent.succeeded":
		return &Notification{IntentID: envelope.Data.Object.ID, Outcome: OutcomeSucceeded}, nil
	case "payment_intent.payment_failed":
		return &Notification{IntentID: envelope.Data.Object.ID, Outcome: OutcomeFailed}, nil
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported notification type %q", envelope.Type))
	}
}
