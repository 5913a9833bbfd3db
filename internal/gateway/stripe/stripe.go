// Package stripe implements the payment gateway against a Stripe-style
// payment intents REST API.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/FaysilAlshareef/TalabatProject/internal/gateway"
	apperrors "github.com/FaysilAlshareef/TalabatProject/pkg/errors"
	"github.com/FaysilAlshareef/TalabatProject/pkg/httpclient"
)

// Config holds the gateway connection settings.
type Config struct {
	BaseURL   string
	SecretKey string
}

// Client talks to the payment provider's REST API. Calls go through the
// shared HTTP client, so they retry on transient failures and trip the
// circuit breaker when the provider is down.
type Client struct {
	cfg    Config
	http   *httpclient.CircuitBreakerClient
	logger *slog.Logger
}

// New creates a gateway client.
func New(cfg Config, httpClient *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: httpClient, logger: logger}
}

// intentResponse is the provider's payment intent representation.
type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent registers a new payment intent for the given amount.
func (c *Client) CreateIntent(ctx context.Context, amount int64, currency string) (*gateway.Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	return c.postIntent(ctx, c.cfg.BaseURL+"/v1/payment_intents", form)
}

// UpdateIntent changes the amount of an existing intent.
func (c *Client) UpdateIntent(ctx context.Context, intentID string, amount int64) (*gateway.Intent, error) {
	if intentID == "" {
		return nil, apperrors.InvalidInput("payment intent id must not be empty")
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))

	return c.postIntent(ctx, c.cfg.BaseURL+"/v1/payment_intents/"+intentID, form)
}

func (c *Client) postIntent(ctx context.Context, endpoint string, form url.Values) (*gateway.Intent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build payment intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "payment intent request failed",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.PaymentFailed("payment service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read payment intent response: %w", err)
	}

	var intent intentResponse
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("decode payment intent response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := fmt.Sprintf("payment service returned status %d", resp.StatusCode)
		if intent.Error != nil && intent.Error.Message != "" {
			message = intent.Error.Message
		}
		c.logger.ErrorContext(ctx, "payment intent rejected",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
		)
		return nil, apperrors.PaymentFailed(message)
	}

	return &gateway.Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
	}, nil
}
