// Package audio captures microphone input as raw PCM for the dictation
// pipeline. Capture runs on a real input device via malgo; the Capturer
// interface keeps the dictation loop testable without hardware.
package audio

import (
	"context"
	"time"
)

// CaptureConfig holds configuration for audio capture.
type CaptureConfig struct {
	// SampleRate is the number of samples per second (Hz).
	// 16000 is what the recognizer expects.
	SampleRate uint32

	// Channels is the number of audio channels. Dictation is mono.
	Channels uint32

	// BufferFrames is the number of frames per device period.
	// Smaller = lower latency, higher CPU usage.
	BufferFrames uint32

	// SampleBufferSize is the channel buffer for captured samples.
	// Larger tolerates slower recognition without dropping frames.
	SampleBufferSize int
}

// DefaultConfig returns the capture configuration for dictation:
// 16kHz mono 16-bit PCM in 30ms periods.
func DefaultConfig() CaptureConfig {
	return CaptureConfig{
		SampleRate:       16000,
		Channels:         1,
		BufferFrames:     480, // 30ms at 16kHz
		SampleBufferSize: 50,
	}
}

// Sample is a chunk of captured PCM audio.
type Sample struct {
	Data      []byte    // 16-bit signed little-endian PCM
	Timestamp time.Time // when the sample was captured
	Frames    uint32    // number of audio frames in this sample
}

// Capturer is the interface for audio capture implementations.
type Capturer interface {
	// Start begins audio capture. Capture stops when ctx is cancelled.
	Start(ctx context.Context) error

	// Stop stops audio capture and closes the sample channel.
	Stop() error

	// Samples returns the channel that receives captured audio.
	Samples() <-chan Sample

	// Errors returns the channel that receives capture errors.
	Errors() <-chan error

	// IsRunning reports whether capture is currently active.
	IsRunning() bool
}

// NewCapturer creates an audio capturer backed by the default input device.
func NewCapturer(config CaptureConfig) (Capturer, error) {
	return NewMalgoCapturer(config)
}
