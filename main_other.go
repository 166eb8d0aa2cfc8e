//go:build !linux

package main

import (
	"os/exec"
	"runtime"
	"strings"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	// the hotkey event tap must own the main thread
	mainthread.Init(run)
}

func focusedApp() (id, name string) {
	if runtime.GOOS != "darwin" {
		return "", ""
	}
	if out, err := exec.Command("osascript", "-e",
		`tell application "System Events" to get bundle identifier of first application process whose frontmost is true`).Output(); err == nil {
		id = strings.TrimSpace(string(out))
	}
	if out, err := exec.Command("osascript", "-e",
		`tell application "System Events" to get name of first application process whose frontmost is true`).Output(); err == nil {
		name = strings.TrimSpace(string(out))
	}
	return id, name
}
