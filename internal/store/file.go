package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/javier/voice-cv/internal/types"
)

// FileStore persists all records as a single JSON blob keyed by token.
// Every mutation is a whole-blob read-modify-write under the store mutex,
// which is what makes CompareAndSwap atomic for in-process callers.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store at path. The file is created
// lazily on first write; a missing or corrupt file reads as an empty store.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, &StoreError{Op: "init", Cause: os.ErrInvalid}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &StoreError{Op: "init", Cause: err}
		}
	}
	return &FileStore{path: path}, nil
}

// Get returns the record for token.
func (s *FileStore) Get(_ context.Context, token string) (types.PaymentRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	record, ok := records[token]
	return record, ok, nil
}

// CompareAndSwap writes updated only if the stored record matches expected.
func (s *FileStore) CompareAndSwap(_ context.Context, token string, expected *types.PaymentRecord, updated types.PaymentRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	current, exists := records[token]

	if expected == nil {
		if exists {
			return false, nil
		}
	} else if !exists || current != *expected {
		return false, nil
	}

	records[token] = updated
	if err := s.save(records); err != nil {
		return false, &StoreError{Op: "write", Cause: err}
	}
	return true, nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}

// load reads the blob. A missing file or parse failure is an empty store.
func (s *FileStore) load() map[string]types.PaymentRecord {
	records := make(map[string]types.PaymentRecord)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return records
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return make(map[string]types.PaymentRecord)
	}
	return records
}

func (s *FileStore) save(records map[string]types.PaymentRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
