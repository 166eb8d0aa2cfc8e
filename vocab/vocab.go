// Package vocab applies the user's custom vocabulary to transcripts,
// correcting words the recognizer consistently gets wrong.
package vocab

import (
	"fmt"
	"regexp"
	"strings"
)

// Entry maps a misheard spoken form to its written replacement.
type Entry struct {
	Spoken      string `json:"spoken" mapstructure:"spoken"`
	Replacement string `json:"replacement" mapstructure:"replacement"`
	AppID       string `json:"app_id,omitempty" mapstructure:"app_id"`
}

// entryExpr builds a case-insensitive whole-word expression. Word-boundary
// anchors only work next to word characters, so they are skipped for
// entries like "c++".
func entryExpr(spoken string) string {
	expr := `(?i)`
	runes := []rune(spoken)
	if isWordRune(runes[0]) {
		expr += `\b`
	}
	expr += regexp.QuoteMeta(spoken)
	if isWordRune(runes[len(runes)-1]) {
		expr += `\b`
	}
	return expr
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

type compiledEntry struct {
	re          *regexp.Regexp
	replacement string
}

// Set is a compiled vocabulary ready to apply.
type Set struct {
	global []compiledEntry
	perApp map[string][]compiledEntry
}

// Compile builds a Set from entries. Entries with an AppID only apply
// when that application is focused, and run before the global ones so an
// app-specific correction wins.
func Compile(entries []Entry) (*Set, error) {
	s := &Set{perApp: make(map[string][]compiledEntry)}
	for _, e := range entries {
		spoken := strings.TrimSpace(e.Spoken)
		if spoken == "" {
			continue
		}
		re, err := regexp.Compile(entryExpr(spoken))
		if err != nil {
			return nil, fmt.Errorf("compiling vocabulary entry %q: %w", spoken, err)
		}
		ce := compiledEntry{re: re, replacement: e.Replacement}
		if e.AppID == "" {
			s.global = append(s.global, ce)
		} else {
			s.perApp[e.AppID] = append(s.perApp[e.AppID], ce)
		}
	}
	return s, nil
}

// Apply rewrites text with the vocabulary for the given focused app.
// Matching is case-insensitive on whole words; replacements keep the
// written form exactly as configured.
func (s *Set) Apply(text, appID string) string {
	if s == nil {
		return text
	}
	out := text
	if appID != "" {
		for _, ce := range s.perApp[appID] {
			out = ce.re.ReplaceAllString(out, ce.replacement)
		}
	}
	for _, ce := range s.global {
		out = ce.re.ReplaceAllString(out, ce.replacement)
	}
	return out
}

// Len reports how many entries compiled.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	n := len(s.global)
	for _, list := range s.perApp {
		n += len(list)
	}
	return n
}
