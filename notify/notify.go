// Package notify surfaces pipeline events as desktop notifications.
package notify

import (
	"strings"

	"github.com/gen2brain/beeep"

	"hushtype/log"
)

const appName = "HushType"

// Notifier sends desktop notifications when enabled. The zero value is a
// disabled notifier.
type Notifier struct {
	enabled bool
}

func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

func (n *Notifier) send(title, message string) {
	if n == nil || !n.enabled {
		return
	}
	message = strings.TrimSpace(message)
	if len(message) > 200 {
		message = message[:200] + "..."
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		log.Warnf("notification failed: %v", err)
	}
}

// Injected announces successfully delivered text.
func (n *Notifier) Injected(text string) {
	n.send(appName, text)
}

// CommandRan announces a command chain outcome.
func (n *Notifier) CommandRan(message string) {
	n.send(appName+" command", message)
}

// Error announces a failed pipeline run.
func (n *Notifier) Error(message string) {
	n.send(appName+" error", message)
}
