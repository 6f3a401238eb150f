package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// RemoteEngine implements Engine against an HTTPS recognition service.
// Audio accumulates locally and is posted as one utterance on FinalResult;
// ProcessAudio only buffers, so interim results are always empty partials.
type RemoteEngine struct {
	endpoint    string
	client      *http.Client
	config      Config
	buf         bytes.Buffer
	mu          sync.Mutex
	initialized bool
}

// remoteResult is the recognition service response body.
type remoteResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// NewRemoteEngine creates an engine that posts audio to endpoint. Endpoints
// without HTTPS are rejected with ErrInsecureEndpoint.
func NewRemoteEngine(endpoint string) (*RemoteEngine, error) {
	return NewRemoteEngineWithClient(endpoint, &http.Client{Timeout: 30 * time.Second})
}

// NewRemoteEngineWithClient is NewRemoteEngine with a caller-supplied HTTP
// client.
func NewRemoteEngineWithClient(endpoint string, client *http.Client) (*RemoteEngine, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid recognition endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "https" {
		return nil, ErrInsecureEndpoint
	}

	return &RemoteEngine{endpoint: endpoint, client: client}, nil
}

// Initialize stores the recognition configuration.
func (r *RemoteEngine) Initialize(config Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return fmt.Errorf("engine already initialized")
	}

	r.config = config
	r.initialized = true
	return nil
}

// ProcessAudio buffers PCM audio for the current utterance.
func (r *RemoteEngine) ProcessAudio(ctx context.Context, audioData []byte) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil, fmt.Errorf("engine not initialized")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.buf.Write(audioData)
	return &Result{Partial: true}, nil
}

// FinalResult posts the buffered utterance and returns the recognition.
func (r *RemoteEngine) FinalResult() (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil, fmt.Errorf("engine not initialized")
	}

	if r.buf.Len() == 0 {
		return &Result{}, nil
	}

	audio := make([]byte, r.buf.Len())
	copy(audio, r.buf.Bytes())
	r.buf.Reset()

	req, err := http.NewRequest(http.MethodPost, r.endpoint, bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("failed to build recognition request: %w", err)
	}
	req.Header.Set("Content-Type", "audio/l16")
	req.Header.Set("X-Sample-Rate", strconv.Itoa(r.config.SampleRate))
	if r.config.Language != "" {
		req.Header.Set("X-Language", r.config.Language)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognition request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recognition service returned status %d", resp.StatusCode)
	}

	var rr remoteResult
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("failed to parse recognition response: %w", err)
	}

	return &Result{
		Text:       rr.Text,
		Partial:    false,
		Confidence: rr.Confidence,
	}, nil
}

// Reset discards buffered audio.
func (r *RemoteEngine) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return fmt.Errorf("engine not initialized")
	}

	r.buf.Reset()
	return nil
}

// Close discards buffered audio and marks the engine uninitialized.
func (r *RemoteEngine) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf.Reset()
	r.initialized = false
	return nil
}

// IsInitialized reports whether the engine is ready for audio.
func (r *RemoteEngine) IsInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}
