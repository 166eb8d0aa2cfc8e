//go:build darwin

package command

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// SystemActions dispatches commands through open(1) and osascript.
type SystemActions struct {
	typeText func(text string) error
}

// NewSystemActions builds the platform dispatcher. typeText is used for
// the literal-typing intent so it goes through the same injection path
// as dictated text.
func NewSystemActions(typeText func(text string) error) *SystemActions {
	return &SystemActions{typeText: typeText}
}

func runCmd(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%s: %s", name, msg)
	}
	return nil
}

func osascript(script string) error {
	return runCmd("osascript", "-e", script)
}

func keyCode(code int) error {
	return osascript(fmt.Sprintf(`tell application "System Events" to key code %d`, code))
}

func (a *SystemActions) Run(cmd ParsedCommand) (string, error) {
	switch cmd.Intent {
	case IntentOpenApp:
		app := cmd.Entities["app"]
		if err := runCmd("open", "-a", app); err != nil {
			return "", fmt.Errorf("could not open %s: %w", app, err)
		}
		return fmt.Sprintf("opened %s", app), nil
	case IntentQuitApp:
		app := cmd.Entities["app"]
		if err := osascript(fmt.Sprintf(`tell application %q to quit`, app)); err != nil {
			return "", fmt.Errorf("could not quit %s: %w", app, err)
		}
		return fmt.Sprintf("quit %s", app), nil
	case IntentVolumeUp:
		return "volume up", osascript(`set volume output volume ((output volume of (get volume settings)) + 6)`)
	case IntentVolumeDown:
		return "volume down", osascript(`set volume output volume ((output volume of (get volume settings)) - 6)`)
	case IntentMute:
		return "muted", osascript(`set volume output muted true`)
	case IntentUnmute:
		return "unmuted", osascript(`set volume output muted false`)
	case IntentPlayPause:
		return "play/pause", keyCode(49) // handled by the frontmost player via media key bridge apps; space fallback
	case IntentNextTrack:
		return "next track", osascript(`tell application "Music" to next track`)
	case IntentPreviousTrack:
		return "previous track", osascript(`tell application "Music" to previous track`)
	case IntentWindowLeft:
		return "window left", moveFrontWindow("left")
	case IntentWindowRight:
		return "window right", moveFrontWindow("right")
	case IntentWindowMaximize:
		return "window maximized", moveFrontWindow("max")
	case IntentLockScreen:
		// ctrl+cmd+q
		return "screen locked", osascript(`tell application "System Events" to key code 12 using {control down, command down}`)
	case IntentScreenshot:
		return "screenshot taken", runCmd("screencapture", screenshotPath())
	case IntentTypeText:
		if a.typeText == nil {
			return "", fmt.Errorf("text typing not wired")
		}
		text := cmd.Entities["text"]
		if err := a.typeText(text); err != nil {
			return "", err
		}
		return fmt.Sprintf("typed %q", text), nil
	}
	return "", fmt.Errorf("unknown intent %q", cmd.Intent)
}

func moveFrontWindow(where string) error {
	var bounds string
	switch where {
	case "left":
		bounds = `{0, 0, (item 1 of screenSize) / 2, item 2 of screenSize}`
	case "right":
		bounds = `{(item 1 of screenSize) / 2, 0, item 1 of screenSize, item 2 of screenSize}`
	default:
		bounds = `{0, 0, item 1 of screenSize, item 2 of screenSize}`
	}
	script := fmt.Sprintf(`
tell application "Finder" to set screenSize to bounds of window of desktop
set screenSize to {item 3 of screenSize, item 4 of screenSize}
tell application "System Events"
	set frontApp to first application process whose frontmost is true
	tell front window of frontApp
		set position to {item 1 of %[1]s, item 2 of %[1]s}
		set size to {(item 3 of %[1]s) - (item 1 of %[1]s), (item 4 of %[1]s) - (item 2 of %[1]s)}
	end tell
end tell`, bounds)
	return osascript(script)
}

func screenshotPath() string {
	home, _ := os.UserHomeDir()
	name := fmt.Sprintf("hushtype-%s.png", time.Now().Format("20060102-150405"))
	return filepath.Join(home, "Desktop", name)
}
