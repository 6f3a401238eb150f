package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"
)

// VoskEngine implements Engine using a local Vosk model.
type VoskEngine struct {
	model       *vosk.VoskModel
	recognizer  *vosk.VoskRecognizer
	config      Config
	mu          sync.Mutex
	initialized bool
}

// voskResult is the JSON shape Vosk returns for both partial and final
// results. Word entries carry per-word confidence.
type voskResult struct {
	Text   string `json:"text"`
	Result []struct {
		Conf  float64 `json:"conf"`
		End   float64 `json:"end"`
		Start float64 `json:"start"`
		Word  string  `json:"word"`
	} `json:"result,omitempty"`
	Partial string `json:"partial,omitempty"`
}

// NewVoskEngine creates an uninitialized Vosk engine.
func NewVoskEngine() *VoskEngine {
	return &VoskEngine{}
}

// Initialize loads the model and creates the recognizer.
func (v *VoskEngine) Initialize(config Config) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.initialized {
		return fmt.Errorf("engine already initialized")
	}

	vosk.SetLogLevel(-1)

	model, err := vosk.NewModel(config.ModelPath)
	if err != nil {
		return fmt.Errorf("failed to load model from %s: %w", config.ModelPath, err)
	}
	if model == nil {
		return fmt.Errorf("failed to load model from %s: model returned nil", config.ModelPath)
	}
	v.model = model

	recognizer, err := vosk.NewRecognizer(model, float64(config.SampleRate))
	if err != nil {
		model.Free()
		return fmt.Errorf("failed to create recognizer: %w", err)
	}
	v.recognizer = recognizer

	// Word results carry the confidence scores
	v.recognizer.SetWords(1)

	v.config = config
	v.initialized = true

	return nil
}

// ProcessAudio feeds PCM audio and returns the current recognition result.
func (v *VoskEngine) ProcessAudio(ctx context.Context, audioData []byte) (*Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return nil, fmt.Errorf("engine not initialized")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	state := v.recognizer.AcceptWaveform(audioData)

	var result Result

	if state > 0 {
		resultJSON := v.recognizer.Result()
		var vr voskResult
		if err := json.Unmarshal([]byte(resultJSON), &vr); err != nil {
			return nil, fmt.Errorf("failed to parse result: %w", err)
		}

		result.Text = vr.Text
		result.Partial = false
		result.Confidence = averageConfidence(vr)
	} else {
		partialJSON := v.recognizer.PartialResult()
		var vr voskResult
		if err := json.Unmarshal([]byte(partialJSON), &vr); err != nil {
			return nil, fmt.Errorf("failed to parse partial result: %w", err)
		}

		result.Text = vr.Partial
		result.Partial = true
		result.Confidence = 0.0
	}

	return &result, nil
}

// FinalResult flushes pending audio and resets the recognizer.
func (v *VoskEngine) FinalResult() (*Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return nil, fmt.Errorf("engine not initialized")
	}

	resultJSON := v.recognizer.FinalResult()
	var vr voskResult
	if err := json.Unmarshal([]byte(resultJSON), &vr); err != nil {
		return nil, fmt.Errorf("failed to parse final result: %w", err)
	}

	return &Result{
		Text:       vr.Text,
		Partial:    false,
		Confidence: averageConfidence(vr),
	}, nil
}

// Reset discards the recognizer state. Vosk resets itself after FinalResult,
// so this is a no-op on an initialized engine.
func (v *VoskEngine) Reset() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return fmt.Errorf("engine not initialized")
	}
	return nil
}

// Close releases the recognizer and model.
func (v *VoskEngine) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return nil
	}

	if v.recognizer != nil {
		v.recognizer.Free()
		v.recognizer = nil
	}
	if v.model != nil {
		v.model.Free()
		v.model = nil
	}

	v.initialized = false
	return nil
}

// IsInitialized reports whether the engine is ready for audio.
func (v *VoskEngine) IsInitialized() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.initialized
}

func averageConfidence(vr voskResult) float64 {
	if len(vr.Result) == 0 {
		return 0.0
	}

	var sum float64
	for _, word := range vr.Result {
		sum += word.Conf
	}
	return sum / float64(len(vr.Result))
}
