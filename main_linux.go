//go:build linux

package main

import (
	"os/exec"
	"strings"
)

func main() {
	run()
}

// focusedApp asks the display server for the active window. Errors mean
// an unknown target, never a failed recording.
func focusedApp() (id, name string) {
	if out, err := exec.Command("xdotool", "getactivewindow", "getwindowclassname").Output(); err == nil {
		id = strings.TrimSpace(string(out))
	}
	if out, err := exec.Command("xdotool", "getactivewindow", "getwindowname").Output(); err == nil {
		name = strings.TrimSpace(string(out))
	}
	if name == "" {
		name = id
	}
	return id, name
}
