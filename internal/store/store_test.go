package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javier/voice-cv/internal/types"
)

// storeFactories returns the backends that can run without external services.
func storeFactories(t *testing.T) map[string]func() Store {
	t.Helper()
	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"file": func() Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "payments.json"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_UnknownTokenReadsAsAbsent(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory()
			defer func() { _ = s.Close() }()

			record, exists, err := s.Get(context.Background(), "never-seen")
			require.NoError(t, err)
			assert.False(t, exists)
			assert.Equal(t, types.PaymentRecord{}, record)
		})
	}
}

func TestStore_CompareAndSwap(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory()
			defer func() { _ = s.Close() }()

			unlocked := types.PaymentRecord{Paid: true, CanRecord: true}

			// Insert requires the token to be absent.
			ok, err := s.CompareAndSwap(ctx, "tok", nil, unlocked)
			require.NoError(t, err)
			assert.True(t, ok)

			// A second insert must fail the precondition.
			ok, err = s.CompareAndSwap(ctx, "tok", nil, unlocked)
			require.NoError(t, err)
			assert.False(t, ok)

			// An update against a stale expectation must fail.
			stale := types.PaymentRecord{}
			ok, err = s.CompareAndSwap(ctx, "tok", &stale, types.PaymentRecord{Used: true})
			require.NoError(t, err)
			assert.False(t, ok)

			// An update against the current value succeeds.
			consumed := types.PaymentRecord{Paid: true, Used: true}
			ok, err = s.CompareAndSwap(ctx, "tok", &unlocked, consumed)
			require.NoError(t, err)
			assert.True(t, ok)

			record, exists, err := s.Get(ctx, "tok")
			require.NoError(t, err)
			assert.True(t, exists)
			assert.Equal(t, consumed, record)
		})
	}
}

func TestFileStore_CorruptBlobReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	record, exists, err := s.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, types.PaymentRecord{}, record)

	// The store must still accept writes after the corrupt read.
	ok, err := s.CompareAndSwap(context.Background(), "abc", nil, types.PaymentRecord{Paid: true, CanRecord: true})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	ok, err := first.CompareAndSwap(context.Background(), "tok", nil, types.PaymentRecord{Paid: true, CanRecord: true})
	require.NoError(t, err)
	require.True(t, ok)

	second, err := NewFileStore(path)
	require.NoError(t, err)
	record, exists, err := second.Get(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, record.Paid)
}

func TestStore_ConcurrentCASLosesNoWrites(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory()
			defer func() { _ = s.Close() }()

			const writers = 16
			var wg sync.WaitGroup
			wins := make(chan struct{}, writers)

			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ok, err := s.CompareAndSwap(ctx, "tok", nil, types.PaymentRecord{Paid: true, CanRecord: true})
					assert.NoError(t, err)
					if ok {
						wins <- struct{}{}
					}
				}()
			}
			wg.Wait()
			close(wins)

			// Exactly one insert may win for the same token.
			assert.Len(t, wins, 1)
		})
	}
}

func TestNewPostgresStore(t *testing.T) {
	t.Skip("Requires a PostgreSQL instance - covered in integration environments")
}
