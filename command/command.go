// Package command turns transcribed speech into structured, safely
// dispatched system actions.
package command

// Intent is the closed set of built-in voice command intents.
type Intent string

const (
	IntentOpenApp        Intent = "open_app"
	IntentQuitApp        Intent = "quit_app"
	IntentVolumeUp       Intent = "volume_up"
	IntentVolumeDown     Intent = "volume_down"
	IntentMute           Intent = "mute"
	IntentUnmute         Intent = "unmute"
	IntentPlayPause      Intent = "play_pause"
	IntentNextTrack      Intent = "next_track"
	IntentPreviousTrack  Intent = "previous_track"
	IntentWindowLeft     Intent = "window_left"
	IntentWindowRight    Intent = "window_right"
	IntentWindowMaximize Intent = "window_maximize"
	IntentLockScreen     Intent = "lock_screen"
	IntentScreenshot     Intent = "screenshot"
	IntentTypeText       Intent = "type_text"
)

// RequiresAutomation reports whether dispatching this intent needs the
// elevated system-automation authorization (window management).
func (i Intent) RequiresAutomation() bool {
	switch i {
	case IntentWindowLeft, IntentWindowRight, IntentWindowMaximize:
		return true
	}
	return false
}

// requiredEntities lists entities an intent cannot be dispatched without.
var requiredEntities = map[Intent][]string{
	IntentOpenApp:  {"app"},
	IntentQuitApp:  {"app"},
	IntentTypeText: {"text"},
}

// ParsedCommand is one structured intent extracted from speech. It is
// never mutated after creation.
type ParsedCommand struct {
	Intent      Intent
	Entities    map[string]string
	Raw         string
	DisplayName string
}

// Result is the outcome of dispatching one command.
type Result struct {
	OK      bool
	Message string
	Intent  Intent
}
