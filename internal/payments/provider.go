// Package payments treats the payment provider as an opaque capability:
// create a checkout session, look a session up. The gate never sees
// provider-specific detail beyond this contract.
package payments

import (
	"context"
	"fmt"
)

// CheckoutSession is the redirect handle returned by the provider.
type CheckoutSession struct {
	ID  string
	URL string
}

// SessionStatus is the provider's view of a checkout session.
type SessionStatus struct {
	ID            string
	PaymentStatus string
	Status        string
}

// Paid reports whether the session completed payment.
func (s *SessionStatus) Paid() bool {
	return s != nil && (s.PaymentStatus == "paid" || s.Status == "complete")
}

// Provider is the opaque payment capability.
type Provider interface {
	// CreateCheckoutSession starts a checkout for the given token. The email
	// is optional and only used to prefill the provider's payment page.
	CreateCheckoutSession(ctx context.Context, uid, email string) (*CheckoutSession, error)

	// GetCheckoutSession retrieves a session by its opaque identifier.
	GetCheckoutSession(ctx context.Context, sessionID string) (*SessionStatus, error)
}

// ConfigError indicates the provider credentials are absent or invalid.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("payments configuration error: %s", e.Message)
}

// ProviderError indicates the upstream provider call failed.
type ProviderError struct {
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("payment provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("payment provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
