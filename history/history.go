// Package history persists completed dictations so users can review and
// re-inject past transcripts.
package history

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one finished dictation.
type Entry struct {
	ID            string        `json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	RawText       string        `json:"raw_text"`
	ProcessedText string        `json:"processed_text,omitempty"`
	Mode          string        `json:"mode,omitempty"`
	Language      string        `json:"language,omitempty"`
	TargetApp     string        `json:"target_app,omitempty"`
	AudioDuration time.Duration `json:"audio_duration_ns,omitempty"`
	WordCount     int           `json:"word_count"`
}

// NewEntry stamps identity and time onto a dictation record.
func NewEntry(raw, processed string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		RawText:   raw,
		ProcessedText: processed,
		WordCount:     countWords(processed),
	}
}

func countWords(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			inWord = false
		} else if !inWord {
			inWord = true
			n++
		}
	}
	return n
}

// Store persists dictation entries.
type Store interface {
	Save(e Entry) error
	Recent(n int) ([]Entry, error)
	Close() error
}
