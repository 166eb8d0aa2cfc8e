package command

import (
	"regexp"
	"strings"
)

type pattern struct {
	intent   Intent
	display  string
	priority int
	re       *regexp.Regexp
}

func re(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + expr)
}

// builtinPatterns map normalized speech to intents. When several patterns
// match the same text the highest priority wins; equal priorities resolve
// in declaration order.
var builtinPatterns = []pattern{
	{IntentVolumeUp, "Volume Up", 20, re(`^(?:volume up|turn (?:the )?volume up|turn up (?:the )?volume|louder)$`)},
	{IntentVolumeDown, "Volume Down", 20, re(`^(?:volume down|turn (?:the )?volume down|turn down (?:the )?volume|quieter)$`)},
	{IntentUnmute, "Unmute", 20, re(`^unmute(?: (?:the )?(?:sound|audio|volume))?$`)},
	{IntentMute, "Mute", 20, re(`^mute(?: (?:the )?(?:sound|audio|volume))?$`)},
	{IntentPlayPause, "Play / Pause", 20, re(`^(?:play|pause|resume|play pause|(?:play|pause) (?:the )?music)$`)},
	{IntentNextTrack, "Next Track", 20, re(`^(?:next(?: (?:track|song))?|skip(?: (?:this )?(?:track|song))?)$`)},
	{IntentPreviousTrack, "Previous Track", 20, re(`^(?:previous(?: (?:track|song))?|go back|last (?:track|song))$`)},
	{IntentWindowLeft, "Window Left", 20, re(`^(?:(?:snap|move) (?:the )?window (?:to the )?left|window left)$`)},
	{IntentWindowRight, "Window Right", 20, re(`^(?:(?:snap|move) (?:the )?window (?:to the )?right|window right)$`)},
	{IntentWindowMaximize, "Maximize Window", 20, re(`^(?:maximize(?: (?:the )?window)?|window maximize|full screen)$`)},
	{IntentLockScreen, "Lock Screen", 20, re(`^lock(?: (?:the )?(?:screen|computer)| it)?$`)},
	{IntentScreenshot, "Screenshot", 20, re(`^(?:take a screenshot|screenshot|capture (?:the )?screen)$`)},
	{IntentOpenApp, "Open App", 10, re(`^(?:open|launch|start) (?P<app>.+)$`)},
	{IntentQuitApp, "Quit App", 10, re(`^(?:quit|close|kill) (?P<app>.+)$`)},
	{IntentTypeText, "Type Text", 5, re(`^type (?P<text>.+)$`)},
}

// chainConjunctions are applied as separate splitting passes, longest
// phrase first so "and then" is consumed before "and" sees it.
var chainConjunctions = []string{"and then", "then", "and", "also"}

// chainVerbs gate conjunction splits. A conjunction only separates two
// commands when the word after it starts a new command; otherwise it is
// part of an entity ("open Tea and Biscuits").
var chainVerbs = map[string]bool{
	"open": true, "launch": true, "start": true,
	"quit": true, "close": true, "kill": true,
	"volume": true, "turn": true, "louder": true, "quieter": true,
	"mute": true, "unmute": true,
	"play": true, "pause": true, "resume": true,
	"next": true, "previous": true, "skip": true, "go": true, "last": true,
	"snap": true, "move": true, "window": true,
	"maximize": true, "full": true,
	"lock": true, "take": true, "screenshot": true, "capture": true,
	"type": true,
}

// Parser matches normalized transcripts against the built-in patterns.
type Parser struct {
	patterns []pattern
}

func NewParser() *Parser {
	return &Parser{patterns: builtinPatterns}
}

func normalize(text string) string {
	t := strings.TrimSpace(text)
	t = strings.TrimRight(t, " .,!?;:")
	return strings.Join(strings.Fields(t), " ")
}

// Parse extracts a single command from text. It reports false when no
// pattern matches.
func (p *Parser) Parse(text string) (ParsedCommand, bool) {
	t := normalize(text)
	if t == "" {
		return ParsedCommand{}, false
	}

	var best *pattern
	var bestMatch []string
	for i := range p.patterns {
		pat := &p.patterns[i]
		m := pat.re.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		if best == nil || pat.priority > best.priority {
			best = pat
			bestMatch = m
		}
	}
	if best == nil {
		return ParsedCommand{}, false
	}

	entities := make(map[string]string)
	for i, name := range best.re.SubexpNames() {
		if name != "" && i < len(bestMatch) && bestMatch[i] != "" {
			entities[name] = strings.TrimSpace(bestMatch[i])
		}
	}
	return ParsedCommand{
		Intent:      best.intent,
		Entities:    entities,
		Raw:         text,
		DisplayName: best.display,
	}, true
}

// ParseChain splits text on chain conjunctions and parses each segment.
// Segments that match no pattern are dropped; if nothing parses at all
// the whole text is tried once as a single command.
func (p *Parser) ParseChain(text string) []ParsedCommand {
	segments := []string{normalize(text)}
	for _, conj := range chainConjunctions {
		var next []string
		for _, seg := range segments {
			next = append(next, p.splitOn(seg, conj)...)
		}
		segments = next
	}

	var cmds []ParsedCommand
	for _, seg := range segments {
		if cmd, ok := p.Parse(seg); ok {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		if cmd, ok := p.Parse(text); ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

var conjRes = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(chainConjunctions))
	for _, c := range chainConjunctions {
		expr := `(?i)\b` + strings.ReplaceAll(regexp.QuoteMeta(c), " ", `\s+`) + `\b`
		m[c] = regexp.MustCompile(expr)
	}
	return m
}()

func (p *Parser) splitOn(seg, conj string) []string {
	locs := conjRes[conj].FindAllStringIndex(seg, -1)
	if len(locs) == 0 {
		return []string{seg}
	}

	var out []string
	start := 0
	for _, loc := range locs {
		if loc[0] <= start {
			continue
		}
		after := strings.Fields(seg[loc[1]:])
		if len(after) == 0 || !chainVerbs[strings.ToLower(after[0])] {
			continue
		}
		left := strings.TrimSpace(seg[start:loc[0]])
		if left != "" {
			out = append(out, left)
		}
		start = loc[1]
	}
	tail := strings.TrimSpace(seg[start:])
	if tail != "" {
		out = append(out, tail)
	}
	if len(out) == 0 {
		return []string{seg}
	}
	return out
}
