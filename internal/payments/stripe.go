package payments

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

// DefaultAPIBase is the production Stripe REST endpoint.
const DefaultAPIBase = "https://api.stripe.com"

// StripeConfig holds the fixed product offer and credentials for checkout.
type StripeConfig struct {
	SecretKey   string
	ClientURL   string // where the provider redirects after checkout
	ProductName string
	Currency    string
	UnitAmount  int // smallest currency unit
	APIBase     string
}

// StripeProvider implements Provider against the Stripe checkout-sessions REST API.
type StripeProvider struct {
	config StripeConfig
	client *http.Client
}

// NewStripeProvider creates a provider. The secret key is required; the
// offer fields fall back to the Voice-CV single-use defaults.
func NewStripeProvider(config StripeConfig) (*StripeProvider, error) {
	if config.SecretKey == "" {
		return nil, &ConfigError{Message: "secret key is required"}
	}
	if config.ClientURL == "" {
		return nil, &ConfigError{Message: "client URL is required"}
	}
	if config.ProductName == "" {
		config.ProductName = "Suscripción Voice-CV"
	}
	if config.Currency == "" {
		config.Currency = "eur"
	}
	if config.UnitAmount <= 0 {
		config.UnitAmount = 1
	}
	if config.APIBase == "" {
		config.APIBase = DefaultAPIBase
	}

	return &StripeProvider{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// CreateCheckoutSession creates a single-payment checkout session whose
// success URL carries the session id and token back to the client.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, uid, email string) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", p.config.Currency)
	form.Set("line_items[0][price_data][product_data][name]", p.config.ProductName)
	form.Set("line_items[0][price_data][unit_amount]", strconv.Itoa(p.config.UnitAmount))
	form.Set("line_items[0][quantity]", "1")
	form.Set("metadata[uid]", uid)
	form.Set("success_url", fmt.Sprintf("%s?success=true&session_id={CHECKOUT_SESSION_ID}&uid=%s",
		p.config.ClientURL, url.QueryEscape(uid)))
	form.Set("cancel_url", p.config.ClientURL+"?canceled=true")
	if email != "" {
		form.Set("customer_email", email)
	}

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := p.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	if session.URL == "" {
		return nil, &ProviderError{Message: "checkout session has no redirect URL"}
	}

	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// GetCheckoutSession retrieves a session's payment state.
func (p *StripeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	var session struct {
		ID            string `json:"id"`
		PaymentStatus string `json:"payment_status"`
		Status        string `json:"status"`
	}
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	if err := p.do(ctx, http.MethodGet, path, nil, &session); err != nil {
		return nil, err
	}

	return &SessionStatus{
		ID:            session.ID,
		PaymentStatus: session.PaymentStatus,
		Status:        session.Status,
	}, nil
}

// do executes one authenticated form-encoded API call.
func (p *StripeProvider) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, p.config.APIBase+path, body)
	if err != nil {
		return &ProviderError{Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.config.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return &ProviderError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &ProviderError{Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &ProviderError{Message: "failed to decode response", Cause: err}
	}
	return nil
}
