//go:build !linux

package inject

import (
	"runtime"
	"sync"

	cb "github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

var (
	kb     keybd_event.KeyBonding
	kbOnce sync.Once
	kbErr  error
)

// Init prepares the keyboard event binding. Safe to call more than once.
func Init() error {
	kbOnce.Do(func() {
		kb, kbErr = keybd_event.NewKeyBonding()
	})
	return kbErr
}

// paste sends the platform paste chord, Cmd+V on macOS and Ctrl+V
// elsewhere.
func paste() error {
	if err := Init(); err != nil {
		return err
	}
	kb.Clear()
	kb.SetKeys(keybd_event.VK_V)
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}
	return kb.Launching()
}

// typeText synthesizes keystrokes through the clipboard on this platform;
// there is no per-character key injection without an event tap.
func typeText(text string) error {
	if err := cb.WriteAll(text); err != nil {
		return err
	}
	return paste()
}

func typeable(string) bool {
	return true
}
