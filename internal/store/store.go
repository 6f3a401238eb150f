// Package store provides the transactional key-value contract for payment records.
//
// The gate depends only on this narrow interface: a point read plus a
// compare-and-swap, so every state transition is race-free regardless of the
// backing medium.
package store

import (
	"context"
	"fmt"

	"github.com/javier/voice-cv/internal/types"
)

// Store is the transactional key-value contract shared by all backends.
type Store interface {
	// Get returns the record for a token and whether it exists. A token the
	// store has never seen returns the zero record and false, not an error.
	Get(ctx context.Context, token string) (types.PaymentRecord, bool, error)

	// CompareAndSwap writes updated for token only if the current record
	// matches expected. A nil expected means "token must not exist yet".
	// Returns false without writing when the precondition fails.
	CompareAndSwap(ctx context.Context, token string, expected *types.PaymentRecord, updated types.PaymentRecord) (bool, error)

	// Close releases backend resources.
	Close() error
}

// StoreError represents a backend read or write failure.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
