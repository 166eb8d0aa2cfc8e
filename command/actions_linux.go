//go:build linux

package command

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// SystemActions dispatches commands with the usual desktop command line
// tools (pactl, playerctl, xdotool, loginctl). Missing tools surface as
// failed results rather than crashes.
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

func (a *SystemActions) Run(cmd ParsedCommand) (string, error) {
	switch cmd.Intent {
	case IntentOpenApp:
		app := cmd.Entities["app"]
		if err := runCmd("gtk-launch", appDesktopName(app)); err != nil {
			// not every app ships a desktop file under its spoken name
			if err2 := runCmd("xdg-open", app); err2 != nil {
				return "", fmt.Errorf("could not open %s: %w", app, err)
			}
		}
		return fmt.Sprintf("opened %s", app), nil
	case IntentQuitApp:
		app := cmd.Entities["app"]
		if err := runCmd("pkill", "-f", "-i", app); err != nil {
			return "", fmt.Errorf("could not quit %s: %w", app, err)
		}
		return fmt.Sprintf("quit %s", app), nil
	case IntentVolumeUp:
		return "volume up", runCmd("pactl", "set-sink-volume", "@DEFAULT_SINK@", "+5%")
	case IntentVolumeDown:
		return "volume down", runCmd("pactl", "set-sink-volume", "@DEFAULT_SINK@", "-5%")
	case IntentMute:
		return "muted", runCmd("pactl", "set-sink-mute", "@DEFAULT_SINK@", "1")
	case IntentUnmute:
		return "unmuted", runCmd("pactl", "set-sink-mute", "@DEFAULT_SINK@", "0")
	case IntentPlayPause:
		return "play/pause", runCmd("playerctl", "play-pause")
	case IntentNextTrack:
		return "next track", runCmd("playerctl", "next")
	case IntentPreviousTrack:
		return "previous track", runCmd("playerctl", "previous")
	case IntentWindowLeft:
		return "window left", runCmd("xdotool", "key", "super+Left")
	case IntentWindowRight:
		return "window right", runCmd("xdotool", "key", "super+Right")
	case IntentWindowMaximize:
		return "window maximized", runCmd("xdotool", "key", "super+Up")
	case IntentLockScreen:
		return "screen locked", runCmd("loginctl", "lock-session")
	case IntentScreenshot:
		return "screenshot taken", runCmd("gnome-screenshot", "-f", screenshotPath())
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

func screenshotPath() string {
	home, _ := os.UserHomeDir()
	name := fmt.Sprintf("hushtype-%s.png", time.Now().Format("20060102-150405"))
	return filepath.Join(home, "Pictures", name)
}

// appDesktopName guesses the desktop-file id from the spoken app name.
func appDesktopName(app string) string {
	return strings.ToLower(strings.Join(strings.Fields(app), "-"))
}
