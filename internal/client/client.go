// Package client talks to the Voice-CV payment API on behalf of the CLI. It
// holds the installation's anonymous token and exposes one method per
// endpoint, plus the checkout-return handshake.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// ErrTokenMismatch is returned by CompleteReturn when the uid carried on the
// checkout return URL differs from the locally held token. A mismatched uid
// would unlock someone else's token, so the return is rejected outright.
var ErrTokenMismatch = errors.New("checkout return uid does not match local token")

// APIError represents a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (%d)", e.StatusCode)
}

// PaymentStatus mirrors the /api/status response.
type PaymentStatus struct {
	Paid      bool `json:"paid"`
	Used      bool `json:"used"`
	CanRecord bool `json:"canRecord"`
}

// Checkout mirrors the /api/create-checkout-session response.
type Checkout struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// Health mirrors the /api/health response.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// Client is a Voice-CV API client bound to one anonymous token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the given API base URL (e.g.
// "http://localhost:8080") and token.
func New(baseURL, token string) *Client {
	return NewWithHTTPClient(baseURL, token, &http.Client{Timeout: DefaultTimeout})
}

// NewWithHTTPClient is New with an explicit HTTP client.
func NewWithHTTPClient(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
	}
}

// Token returns the anonymous token this client operates on.
func (c *Client) Token() string {
	return c.token
}

// Health checks API reachability.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.get(ctx, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status returns the payment state for this client's token.
func (c *Client) Status(ctx context.Context) (*PaymentStatus, error) {
	var out PaymentStatus
	query := url.Values{"uid": {c.token}}
	if err := c.get(ctx, "/api/status", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BeginCheckout asks the server for a hosted checkout page. The email is
// optional and only prefills the payment form.
func (c *Client) BeginCheckout(ctx context.Context, email string) (*Checkout, error) {
	body := map[string]string{"uid": c.token}
	if email != "" {
		body["email"] = email
	}

	var out Checkout
	if err := c.post(ctx, "/api/create-checkout-session", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteReturn finishes the checkout cycle after the user comes back from
// the payment page. It verifies the session server-side and reports whether
// the payment went through. The uid from the return URL must match the local
// token; anything else is rejected with ErrTokenMismatch before any network
// call is made.
func (c *Client) CompleteReturn(ctx context.Context, sessionID, uid string) (bool, error) {
	if uid != c.token {
		return false, ErrTokenMismatch
	}

	var out struct {
		Paid bool `json:"paid"`
	}
	query := url.Values{"session_id": {sessionID}, "uid": {c.token}}
	if err := c.get(ctx, "/api/verify-payment", query, &out); err != nil {
		return false, err
	}
	return out.Paid, nil
}

// MarkUsed consumes the token's recording entitlement.
func (c *Client) MarkUsed(ctx context.Context) error {
	var out struct {
		OK bool `json:"ok"`
	}
	return c.post(ctx, "/api/mark-used", map[string]string{"uid": c.token}, &out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var decoded struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &decoded) == nil {
			apiErr.Message = decoded.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
