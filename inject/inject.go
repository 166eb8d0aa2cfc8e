// Package inject delivers final text into the focused application, either
// by synthesizing keystrokes or by a clipboard copy-paste round trip.
package inject

import (
	"fmt"
	"time"
	"unicode/utf8"

	cb "github.com/atotto/clipboard"

	"hushtype/log"
)

// Method selects how text reaches the focused application.
type Method int

const (
	// MethodAuto types short plain text and pastes everything else.
	MethodAuto Method = iota
	MethodKeystroke
	MethodClipboard
)

func (m Method) String() string {
	switch m {
	case MethodKeystroke:
		return "keystroke"
	case MethodClipboard:
		return "clipboard"
	default:
		return "auto"
	}
}

func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "auto":
		return MethodAuto, nil
	case "keystroke", "type":
		return MethodKeystroke, nil
	case "clipboard", "paste":
		return MethodClipboard, nil
	}
	return MethodAuto, fmt.Errorf("unknown injection method %q", s)
}

// keystrokeMaxLen is where auto switches from typing to pasting. Long
// transcripts typed character by character are slow and easy to corrupt
// when the user touches the keyboard mid-stream.
const keystrokeMaxLen = 200

const restoreDelay = 600 * time.Millisecond

// Injector delivers text into the focused application.
type Injector interface {
	Inject(text string, method Method) error
}

// SystemInjector is the real platform-backed injector.
type SystemInjector struct{}

func New() *SystemInjector {
	return &SystemInjector{}
}

func (in *SystemInjector) Inject(text string, method Method) error {
	if text == "" {
		return nil
	}
	switch resolve(method, text) {
	case MethodKeystroke:
		return typeText(text)
	default:
		return in.pasteViaClipboard(text)
	}
}

func resolve(m Method, text string) Method {
	if m != MethodAuto {
		return m
	}
	if utf8.RuneCountInString(text) <= keystrokeMaxLen && typeable(text) {
		return MethodKeystroke
	}
	return MethodClipboard
}

// pasteViaClipboard copies text, sends the paste chord, then restores the
// previous clipboard contents once the target application has had time to
// consume the paste.
func (in *SystemInjector) pasteViaClipboard(text string) error {
	prev, _ := cb.ReadAll()
	if err := cb.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	if err := paste(); err != nil {
		return err
	}
	if prev != "" {
		go func() {
			time.Sleep(restoreDelay)
			if err := cb.WriteAll(prev); err != nil {
				log.Warnf("clipboard restore failed: %v", err)
			}
		}()
	}
	return nil
}
