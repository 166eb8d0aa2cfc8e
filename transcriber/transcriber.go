// Package transcriber converts recorded audio into text.
package transcriber

import (
	"context"
	"errors"
	"time"
)

// ErrNoAudio is returned when a transcription is requested for an empty
// sample buffer.
var ErrNoAudio = errors.New("no audio to transcribe")

// Result is one completed transcription.
type Result struct {
	Text              string
	DetectedLanguage  string
	AudioDuration     time.Duration
	InferenceDuration time.Duration
}

type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, samples []float32, language string) (*Result, error)
}
