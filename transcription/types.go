package transcription

import (
	"context"
	"strings"

	"github.com/kbukum/trascrivi/provider"
)

// FallbackConfidence is the overall confidence reported when a transcript has no words.
const FallbackConfidence = 0.95

// Service is the speech-to-text capability. Implementations must be safe for
// concurrent use.
type Service interface {
	provider.Provider

	// Transcribe converts the audio at audioURL to text. Failures are *Error
	// values once the backend has finished retrying, except that any backend
	// may return ctx.Err() unwrapped when the caller's context is done.
	Transcribe(ctx context.Context, audioURL string) (*Result, error)
}

// Word is one recognized token. Start and End are milliseconds from the
// beginning of the audio.
type Word struct {
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Result is the outcome of one Transcribe call. Words are in temporal order.
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words"`
}

// NormalizeText collapses every run of whitespace, line breaks included, into a
// single space and trims both ends.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MeanConfidence returns the arithmetic mean of the word confidences, or
// FallbackConfidence when there are none.
func MeanConfidence(words []Word) float64 {
	if len(words) == 0 {
		return FallbackConfidence
	}
	var sum float64
	for _, w := range words {
		sum += w.Confidence
	}
	return ClampConfidence(sum / float64(len(words)))
}

// ClampConfidence bounds c to [0, 1].
func ClampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
