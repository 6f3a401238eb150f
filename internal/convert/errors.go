package convert

import "fmt"

// EmptyTranscriptError indicates the transcript had no usable content.
type EmptyTranscriptError struct{}

func (e *EmptyTranscriptError) Error() string {
	return "transcript is empty"
}

// GenerationError wraps failures from the generative model. Callers that see
// one have already been served the local fallback, so it is informational.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
