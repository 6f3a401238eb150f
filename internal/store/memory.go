package store

import (
	"context"
	"sync"

	"github.com/javier/voice-cv/internal/types"
)

// MemoryStore is an in-process Store used by tests and dev mode.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]types.PaymentRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]types.PaymentRecord)}
}

// Get returns the record for token.
func (s *MemoryStore) Get(_ context.Context, token string) (types.PaymentRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[token]
	return record, ok, nil
}

// CompareAndSwap writes updated only if the stored record matches expected.
func (s *MemoryStore) CompareAndSwap(_ context.Context, token string, expected *types.PaymentRecord, updated types.PaymentRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.records[token]
	if expected == nil {
		if exists {
			return false, nil
		}
	} else if !exists || current != *expected {
		return false, nil
	}

	s.records[token] = updated
	return true, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error {
	return nil
}
