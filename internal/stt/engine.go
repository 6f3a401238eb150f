// Package stt provides speech-to-text for the dictation pipeline. The local
// engine runs Vosk against a Spanish acoustic model; a remote engine posts
// audio to an HTTPS recognition service. Both produce interim and final
// results so the dictation loop can show live text while speech continues.
package stt

import (
	"context"
	"errors"
)

// ErrInsecureEndpoint is returned when a remote recognition endpoint does not
// use HTTPS. Recognition audio never travels over plaintext transports.
var ErrInsecureEndpoint = errors.New("recognition endpoint must use https")

// Result represents a speech recognition result.
type Result struct {
	// Text is the recognized text.
	Text string

	// Partial indicates an interim result; final results complete a phrase.
	Partial bool

	// Confidence is the recognition confidence (0.0 to 1.0).
	Confidence float64
}

// Config holds configuration for a recognition engine.
type Config struct {
	// ModelPath is the path to the acoustic model directory.
	ModelPath string

	// Language is the BCP-47 recognition language tag.
	Language string

	// SampleRate is the audio sample rate in Hz.
	SampleRate int
}

// DefaultConfig returns the recognition configuration for Spanish dictation.
func DefaultConfig(modelPath string) Config {
	return Config{
		ModelPath:  modelPath,
		Language:   "es-ES",
		SampleRate: 16000,
	}
}

// Engine is the interface for speech-to-text engines.
type Engine interface {
	// Initialize prepares the engine with the given configuration.
	Initialize(config Config) error

	// ProcessAudio feeds 16-bit PCM audio and returns the current result,
	// which may be partial while the phrase is still in progress.
	ProcessAudio(ctx context.Context, audioData []byte) (*Result, error)

	// FinalResult flushes pending audio and returns the final result,
	// resetting the recognizer for the next phrase.
	FinalResult() (*Result, error)

	// Reset discards the recognizer state.
	Reset() error

	// Close releases resources.
	Close() error

	// IsInitialized reports whether the engine is ready for audio.
	IsInitialized() bool
}
