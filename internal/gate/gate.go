// Package gate implements the single-use payment access state machine.
//
// A token moves locked -> unlocked on a verified payment, unlocked ->
// consumed when a recording has produced a résumé, and back to unlocked on
// re-payment. State lives in the store as a PaymentRecord; transitions are
// committed with compare-and-swap under a per-token lock, so concurrent
// verify/consume calls for one token cannot lose updates.
package gate

import (
	"context"
	"fmt"
	"sync"

	"github.com/javier/voice-cv/internal/payments"
	"github.com/javier/voice-cv/internal/store"
	"github.com/javier/voice-cv/internal/types"
)

// casAttempts bounds the retry loop against external writers (e.g. another
// process sharing a Postgres store).
const casAttempts = 5

// Gate enforces the payment state machine over a store and a payment provider.
type Gate struct {
	store    store.Store
	provider payments.Provider

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a gate. The provider may be nil for deployments that only
// query and consume (e.g. tests); BeginCheckout and Verify then fail with a
// configuration error.
func New(s store.Store, provider payments.Provider) *Gate {
	return &Gate{
		store:    s,
		provider: provider,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Query returns the current record for a token. A token the store has never
// seen reads as the locked zero record; Query never fails for missing data.
func (g *Gate) Query(ctx context.Context, token string) (types.PaymentRecord, error) {
	record, _, err := g.store.Get(ctx, token)
	if err != nil {
		return types.PaymentRecord{}, err
	}
	return record, nil
}

// BeginCheckout asks the provider for a checkout session. It never mutates
// local state; the unlock happens only through Verify.
func (g *Gate) BeginCheckout(ctx context.Context, token, email string) (*payments.CheckoutSession, error) {
	if g.provider == nil {
		return nil, &payments.ConfigError{Message: "payment provider is not configured"}
	}
	return g.provider.CreateCheckoutSession(ctx, token, email)
}

// Verify looks up a checkout session and, when it is paid, commits the
// unlocked state: paid=true, canRecord=true, used reset to false so a
// re-payment always re-arms a full cycle. Verifying an already-unlocked
// token is an idempotent no-op write. A session that is not paid returns
// false and leaves the store untouched.
func (g *Gate) Verify(ctx context.Context, sessionID, token string) (bool, error) {
	if g.provider == nil {
		return false, &payments.ConfigError{Message: "payment provider is not configured"}
	}

	status, err := g.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if !status.Paid() {
		return false, nil
	}

	unlocked := types.PaymentRecord{Paid: true, Used: false, CanRecord: true}
	if err := g.commit(ctx, token, func(types.PaymentRecord) types.PaymentRecord {
		return unlocked
	}); err != nil {
		return false, err
	}
	return true, nil
}

// Consume marks the token's access as spent: used=true, canRecord=false,
// preserving paid. Callers must invoke it only after a successful
// structuring pass.
func (g *Gate) Consume(ctx context.Context, token string) error {
	return g.commit(ctx, token, func(current types.PaymentRecord) types.PaymentRecord {
		return types.PaymentRecord{Paid: current.Paid, Used: true, CanRecord: false}
	})
}

// commit applies a read-modify-write transition for one token under its lock.
func (g *Gate) commit(ctx context.Context, token string, transition func(types.PaymentRecord) types.PaymentRecord) error {
	lock := g.tokenLock(token)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 0; attempt < casAttempts; attempt++ {
		current, exists, err := g.store.Get(ctx, token)
		if err != nil {
			return err
		}

		var expected *types.PaymentRecord
		if exists {
			expected = &current
		}

		ok, err := g.store.CompareAndSwap(ctx, token, expected, transition(current))
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("gate: transition for token contended %d times, giving up", casAttempts)
}

// tokenLock returns the serialization lock for a token, creating it on first use.
func (g *Gate) tokenLock(token string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, ok := g.locks[token]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[token] = lock
	}
	return lock
}
