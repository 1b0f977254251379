// Package stripe is a minimal client for the two payment operations the
// funnel needs: creating a payment intent at checkout and retrieving it for
// server-side verification before any access is granted.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.stripe.com"

// PlanAmounts maps purchasable plans to their price in cents. Amounts are
// resolved server-side only; the client never supplies a price.
var PlanAmounts = map[string]int64{
	"community": 9700,
	"consult":   29700,
}

// PaymentIntent mirrors the fields of the Stripe payment intent object this
// application reads.
type PaymentIntent struct {
	ID           string            `json:"id"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	ClientSecret string            `json:"client_secret"`
	Metadata     map[string]string `json:"metadata"`
}

// Succeeded reports whether the intent has been captured.
func (pi *PaymentIntent) Succeeded() bool {
	return pi.Status == "succeeded"
}

// Client talks to the Stripe REST API with a secret key.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// NewClient returns a client for the given secret key.
func NewClient(secretKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a secret key is configured.
func (c *Client) Enabled() bool {
	return c.secretKey != ""
}

// CreatePaymentIntent creates a USD intent for the given plan. The amount is
// looked up from PlanAmounts; an unknown plan is rejected before any network
// call.
func (c *Client) CreatePaymentIntent(ctx context.Context, plan, email string) (*PaymentIntent, error) {
	amount, ok := PlanAmounts[plan]
	if !ok {
		return nil, fmt.Errorf("unknown plan %q", plan)
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", "usd")
	form.Set("metadata[plan]", plan)
	form.Set("metadata[email]", email)
	form.Set("receipt_email", email)

	var intent PaymentIntent
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", form, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// GetPaymentIntent retrieves an intent by ID.
func (c *Client) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	var intent PaymentIntent
	if err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(id), nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, dest any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe: %s (%s)", apiErr.Error.Message, apiErr.Error.Type)
		}
		return fmt.Errorf("stripe: status %d", resp.StatusCode)
	}

	return json.Unmarshal(respBody, dest)
}
