package capture

import (
	"strings"
	"sync"
)

// TranscriptBuffer accumulates accepted final fragments into the session
// transcript. Safe for concurrent use.
type TranscriptBuffer struct {
	mu    sync.RWMutex
	parts []string
}

// Append adds a final fragment. Empty fragments are ignored.
func (b *TranscriptBuffer) Append(fragment string) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return
	}

	b.mu.Lock()
	b.parts = append(b.parts, fragment)
	b.mu.Unlock()
}

// String returns the accumulated transcript, fragments joined by spaces.
func (b *TranscriptBuffer) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.parts, " ")
}

// Len returns the number of accepted fragments.
func (b *TranscriptBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.parts)
}

// Reset clears the buffer.
func (b *TranscriptBuffer) Reset() {
	b.mu.Lock()
	b.parts = nil
	b.mu.Unlock()
}
