package command

import (
	"strings"
	"sync"
)

// EnableRegistry tracks which intents the user has switched off and the
// custom spoken phrases they mapped to commands. Everything is enabled
// unless listed.
type EnableRegistry struct {
	mu       sync.RWMutex
	disabled map[Intent]bool
	custom   map[string]ParsedCommand
}

func NewEnableRegistry(disabled []string) *EnableRegistry {
	r := &EnableRegistry{
		disabled: make(map[Intent]bool),
		custom:   make(map[string]ParsedCommand),
	}
	for _, d := range disabled {
		r.disabled[Intent(d)] = true
	}
	return r
}

func (r *EnableRegistry) IsEnabled(intent Intent) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.disabled[intent]
}

func (r *EnableRegistry) SetEnabled(intent Intent, on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if on {
		delete(r.disabled, intent)
	} else {
		r.disabled[intent] = true
	}
}

// AddCustom maps a spoken phrase to a command. Blank phrases are ignored.
func (r *EnableRegistry) AddCustom(phrase string, cmd ParsedCommand) {
	key := customKey(phrase)
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom[key] = cmd
}

// ResolveCustomCommand matches the whole body against the user's custom
// phrases. Custom phrases take precedence over built-in parsing; the
// caller falls back to the pattern parser on a miss.
func (r *EnableRegistry) ResolveCustomCommand(text string) (ParsedCommand, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.custom[customKey(text)]
	return cmd, ok
}

func customKey(text string) string {
	return strings.ToLower(normalize(text))
}
