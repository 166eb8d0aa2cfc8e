// Package processor optionally rewrites transcripts with a local language
// model before injection.
package processor

import "context"

// Mode selects how aggressively the transcript is rewritten.
type Mode string

const (
	// ModeNone passes the transcript through untouched.
	ModeNone Mode = "none"
	// ModeCleanup fixes punctuation and removes filler words.
	ModeCleanup Mode = "cleanup"
	// ModeFormal rewrites into formal prose.
	ModeFormal Mode = "formal"
	// ModeCustom uses a user-supplied prompt template.
	ModeCustom Mode = "custom"
)

type Processor interface {
	Name() string
	Process(ctx context.Context, text string, mode Mode, template string) (string, error)
}

var prompts = map[Mode]string{
	ModeCleanup: "Clean up this dictated text. Fix punctuation and capitalization, remove filler words " +
		"(um, uh, you know), and fix obvious transcription mistakes. Keep the meaning and tone. " +
		"Reply with the cleaned text only, nothing else.",
	ModeFormal: "Rewrite this dictated text as clear, formal prose. Fix grammar and structure. " +
		"Reply with the rewritten text only, nothing else.",
}

func promptFor(mode Mode, template string) string {
	if mode == ModeCustom && template != "" {
		return template
	}
	return prompts[mode]
}
