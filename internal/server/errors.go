// Package server provides the HTTP API for the payment gate.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/javier/voice-cv/internal/payments"
	"github.com/javier/voice-cv/internal/store"
)

// ErrValidation indicates a request that failed validation. Message is the
// client-facing error text.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Configuration, provider and store failures all surface as a generic
// internal error; the detail stays in the logs.
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		configErr     *payments.ConfigError
		providerErr   *payments.ProviderError
		storeErr      *store.StoreError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &configErr),
		errors.As(err, &providerErr),
		errors.As(err, &storeErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
