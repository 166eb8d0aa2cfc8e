// Package hotkey watches global input events and matches them against a
// small set of user bindings, emitting binding-down / binding-up signals.
package hotkey

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Modifier is a bitmask of recognized modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModCmd
)

const recognizedMods = ModCtrl | ModAlt | ModShift | ModCmd

// MaxBindings caps the number of simultaneously registered bindings.
const MaxBindings = 4

var (
	ErrAlreadyRunning = errors.New("hotkey monitor already running")
	ErrMaxBindings    = fmt.Errorf("at most %d hotkey bindings may be registered", MaxBindings)

	// ErrPermission means the OS denied input monitoring; callers
	// should prompt the user rather than retry.
	ErrPermission = errors.New("input monitoring permission denied")
)

// Binding ties a key plus an exact modifier set to an identity and an
// optional mode tag.
type Binding struct {
	ID      string
	Key     string
	Mods    Modifier
	Mode    string
	Enabled bool
}

// Event is one observed key press or release with the modifier state at
// that moment.
type Event struct {
	Key  string
	Mods Modifier
}

// Matches reports whether the event triggers this binding. The event's
// modifiers, masked to the recognized set, must equal the binding's
// modifiers exactly: extra or missing modifiers never match.
func (b Binding) Matches(ev Event) bool {
	return b.Enabled && ev.Key == b.Key && ev.Mods&recognizedMods == b.Mods
}

// Solo reports whether this is a bare-key binding matched through the
// modifier-state edge-detection path.
func (b Binding) Solo() bool {
	return b.Mods == 0
}

// soloKeys are the keys allowed to stand alone in a binding. They have
// no discrete keyDown/keyUp in some OS event models and are derived
// from the continuous modifier-state signal instead.
var soloKeys = map[string]bool{
	"fn":        true,
	"capslock":  true,
	"rightctrl": true,
	"rightcmd":  true,
}

var modTokens = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"option":  ModAlt,
	"alt":     ModAlt,
	"shift":   ModShift,
	"cmd":     ModCmd,
	"command": ModCmd,
	"super":   ModCmd,
	"meta":    ModCmd,
}

// ParseBinding parses the serialized form: ordered modifier tokens
// joined by "+" and terminated by a key name ("ctrl+shift+space"). A
// single bare key name is valid only for designated solo keys.
func ParseBinding(s string) (Binding, error) {
	parts := strings.Split(s, "+")
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}
	key := parts[len(parts)-1]
	if key == "" {
		return Binding{}, fmt.Errorf("invalid hotkey %q: missing key name", s)
	}

	var mods Modifier
	for _, tok := range parts[:len(parts)-1] {
		m, ok := modTokens[tok]
		if !ok {
			return Binding{}, fmt.Errorf("invalid hotkey %q: unknown modifier %q", s, tok)
		}
		mods |= m
	}
	if mods == 0 && !soloKeys[key] {
		return Binding{}, fmt.Errorf("invalid hotkey %q: key %q cannot be used without modifiers", s, key)
	}
	if _, isMod := modTokens[key]; isMod {
		return Binding{}, fmt.Errorf("invalid hotkey %q: %q is a modifier, not a key", s, key)
	}

	return Binding{ID: s, Key: key, Mods: mods, Enabled: true}, nil
}

// String serializes the binding so that ParseBinding round-trips it.
// Canonical token order is ctrl, option, shift, cmd.
func (b Binding) String() string {
	var parts []string
	if b.Mods&ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if b.Mods&ModAlt != 0 {
		parts = append(parts, "option")
	}
	if b.Mods&ModShift != 0 {
		parts = append(parts, "shift")
	}
	if b.Mods&ModCmd != 0 {
		parts = append(parts, "cmd")
	}
	parts = append(parts, b.Key)
	return strings.Join(parts, "+")
}

// systemShortcuts lists well-known OS shortcuts. Collisions are
// surfaced as advisory warnings, never as errors.
var systemShortcuts = map[string]string{
	"ctrl+c":         "terminal interrupt / copy",
	"ctrl+v":         "paste",
	"ctrl+x":         "cut",
	"ctrl+z":         "undo",
	"ctrl+option+t":  "terminal shortcut",
	"cmd+space":      "Spotlight search",
	"cmd+tab":        "application switcher",
	"cmd+q":          "quit application",
	"ctrl+shift+esc": "task manager",
}

// ConflictWarnings returns advisory messages for bindings that shadow
// well-known system shortcuts.
func ConflictWarnings(b Binding) []string {
	var warnings []string
	if desc, ok := systemShortcuts[b.String()]; ok {
		warnings = append(warnings, fmt.Sprintf("%s conflicts with %s", b.String(), desc))
	}
	return warnings
}

// Monitor is the global hotkey watcher. Implementations own a dedicated
// input-tap goroutine and post matched bindings to the Down/Up channels.
type Monitor interface {
	Start() error
	Stop()
	Register(b Binding) error
	// ReplaceFromString atomically replaces the whole binding set with
	// the single binding parsed from s.
	ReplaceFromString(s string) error
	Down() <-chan Binding
	Up() <-chan Binding
}

// bindingSet is the shared registered-binding store. It is read from
// the input-tap goroutine and written from configuration reloads, so
// access is guarded.
type bindingSet struct {
	mu   sync.RWMutex
	list []Binding
}

func (s *bindingSet) register(b Binding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.list) >= MaxBindings {
		return ErrMaxBindings
	}
	s.list = append(s.list, b)
	return nil
}

// replaceAll swaps the entire set in one critical section so a reload
// is never observed half-applied.
func (s *bindingSet) replaceAll(bs []Binding) {
	s.mu.Lock()
	s.list = append([]Binding(nil), bs...)
	s.mu.Unlock()
}

func (s *bindingSet) match(ev Event) (Binding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.list {
		if b.Matches(ev) {
			return b, true
		}
	}
	return Binding{}, false
}

func (s *bindingSet) solo(key string) (Binding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.list {
		if b.Enabled && b.Solo() && b.Key == key {
			return b, true
		}
	}
	return Binding{}, false
}

func (s *bindingSet) all() []Binding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]Binding(nil), s.list...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
