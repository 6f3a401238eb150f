// Package convert turns a dictated transcript into a structured résumé. The
// primary path sends the transcript to a generative model with a strict JSON
// schema prompt; when the model is unavailable or returns something unusable,
// a regex-based local extractor produces a draft instead, so dictation never
// dead-ends on a missing API key or a flaky response.
package convert

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/javier/voice-cv/internal/llm"
	"github.com/javier/voice-cv/internal/prompts"
	"github.com/javier/voice-cv/internal/schemas"
	"github.com/javier/voice-cv/internal/types"
)

// Source identifies which path produced a structured résumé.
type Source string

const (
	// SourceModel means the generative model produced the résumé.
	SourceModel Source = "model"
	// SourceLocal means the regex fallback extractor produced it.
	SourceLocal Source = "local"
)

// Converter structures transcripts into résumés.
type Converter struct {
	client llm.Client
}

// NewConverter creates a Converter. A nil client is allowed and routes every
// conversion through the local extractor.
func NewConverter(client llm.Client) *Converter {
	return &Converter{client: client}
}

// Convert structures a transcript into a résumé. The returned Source reports
// whether the model or the local fallback produced it. The résumé is always
// complete: missing fields are filled from the Spanish defaults.
func (c *Converter) Convert(ctx context.Context, transcript string) (types.Resume, Source, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return types.Resume{}, "", &EmptyTranscriptError{}
	}

	if c.client == nil {
		return ExtractLocal(transcript), SourceLocal, nil
	}

	resume, err := c.convertWithModel(ctx, transcript)
	if err != nil {
		log.Printf("convert: falling back to local extraction: %v", err)
		return ExtractLocal(transcript), SourceLocal, nil
	}

	return resume, SourceModel, nil
}

func (c *Converter) convertWithModel(ctx context.Context, transcript string) (types.Resume, error) {
	prompt := buildStructuringPrompt(transcript)

	raw, err := c.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return types.Resume{}, &GenerationError{Message: "model request failed", Cause: err}
	}

	jsonStr := llm.ExtractJSON(raw)

	var partial types.PartialResume
	if err := json.Unmarshal([]byte(jsonStr), &partial); err != nil {
		return types.Resume{}, &GenerationError{Message: "model returned unparseable JSON", Cause: err}
	}

	resume := types.MergeWithDefaults(partial)

	if err := schemas.ValidateResume(resume); err != nil {
		return types.Resume{}, &GenerationError{Message: "structured resume failed schema validation", Cause: err}
	}

	return resume, nil
}

// buildStructuringPrompt constructs the Spanish structuring prompt.
func buildStructuringPrompt(transcript string) string {
	template := prompts.MustGet("convert.json", "structure_resume")
	return prompts.Format(template, map[string]string{
		"Transcript": transcript,
	})
}
