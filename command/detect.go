package command

import (
	"strings"
	"unicode"
)

// DetectWake checks whether text begins with the wake phrase and, if so,
// returns the command body that follows it. The phrase only counts at the
// very start of the transcript; mid-sentence occurrences are ignored so
// ordinary dictation that happens to mention the phrase is left alone.
func DetectWake(text, wakePhrase string) (string, bool) {
	phrase := strings.TrimSpace(wakePhrase)
	if phrase == "" {
		return "", false
	}

	t := strings.TrimSpace(text)
	if len(t) < len(phrase) {
		return "", false
	}
	if !strings.EqualFold(t[:len(phrase)], phrase) {
		return "", false
	}

	rest := t[len(phrase):]
	if rest != "" {
		// "Hey Typewriter" must not trigger "Hey Type".
		r := []rune(rest)[0]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return "", false
		}
	}

	body := strings.TrimLeftFunc(rest, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	if body == "" {
		return "", false
	}
	return body, true
}
