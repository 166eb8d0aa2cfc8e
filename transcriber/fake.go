package transcriber

import (
	"context"
	"time"
)

// FakeTranscriber returns canned results for tests.
type FakeTranscriber struct {
	Text  string
	Lang  string
	Err   error
	Calls int
}

func NewFake(text string, err error) *FakeTranscriber {
	return &FakeTranscriber{Text: text, Err: err}
}

func (f *FakeTranscriber) Name() string { return "fake" }

func (f *FakeTranscriber) Transcribe(_ context.Context, samples []float32, language string) (*Result, error) {
	f.Calls++
	if len(samples) == 0 {
		return nil, ErrNoAudio
	}
	if f.Err != nil {
		return nil, f.Err
	}
	lang := f.Lang
	if lang == "" {
		lang = language
	}
	return &Result{
		Text:              f.Text,
		DetectedLanguage:  lang,
		AudioDuration:     time.Duration(len(samples)) * time.Second / 16000,
		InferenceDuration: 10 * time.Millisecond,
	}, nil
}
