//go:build linux

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"hushtype/log"
)

const (
	evKey      = 1
	keyPress   = 1
	keyRelease = 0
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

// Modifier key codes from linux/input-event-codes.h.
const (
	codeLCtrl  = 29
	codeRCtrl  = 97
	codeLShift = 42
	codeRShift = 54
	codeLAlt   = 56
	codeRAlt   = 100
	codeLMeta  = 125
	codeRMeta  = 126
)

// keyNames maps evdev codes of supported non-modifier keys to the names
// used in serialized bindings.
var keyNames = map[uint16]string{
	57: "space", 28: "enter", 15: "tab", 1: "esc", 58: "capslock",
	2: "1", 3: "2", 4: "3", 5: "4", 6: "5", 7: "6", 8: "7", 9: "8", 10: "9", 11: "0",
	30: "a", 48: "b", 46: "c", 32: "d", 18: "e", 33: "f", 34: "g", 35: "h",
	23: "i", 36: "j", 37: "k", 38: "l", 50: "m", 49: "n", 24: "o", 25: "p",
	16: "q", 19: "r", 31: "s", 20: "t", 22: "u", 47: "v", 17: "w", 45: "x",
	21: "y", 44: "z",
	59: "f1", 60: "f2", 61: "f3", 62: "f4", 63: "f5", 64: "f6",
	65: "f7", 66: "f8", 67: "f9", 68: "f10", 87: "f11", 88: "f12",
}

type linuxMonitor struct {
	bindings bindingSet
	down     chan Binding
	up       chan Binding

	mu      sync.Mutex
	running bool
	files   []*os.File
	stop    chan struct{}
}

// NewMonitor builds the evdev-backed monitor.
func NewMonitor() Monitor {
	return &linuxMonitor{
		down: make(chan Binding, 1),
		up:   make(chan Binding, 1),
	}
}

func (m *linuxMonitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return ErrAlreadyRunning
	}

	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("scanning input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("%w: no keyboard devices found (is user in 'input' group?)", ErrPermission)
	}

	m.stop = make(chan struct{})
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		m.files = append(m.files, f)
		go m.readEvents(path, f, m.stop)
	}
	if len(m.files) == 0 {
		return fmt.Errorf("%w: cannot open any keyboard device (run: sudo usermod -aG input $USER)", ErrPermission)
	}

	m.running = true
	return nil
}

func (m *linuxMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	close(m.stop)
	for _, f := range m.files {
		f.Close()
	}
	m.files = nil
	m.running = false
}

func (m *linuxMonitor) Register(b Binding) error {
	return m.bindings.register(b)
}

func (m *linuxMonitor) ReplaceFromString(s string) error {
	b, err := ParseBinding(s)
	if err != nil {
		return err
	}
	for _, w := range ConflictWarnings(b) {
		log.Warnf("hotkey conflict: %s", w)
	}
	m.bindings.replaceAll([]Binding{b})
	return nil
}

func (m *linuxMonitor) Down() <-chan Binding { return m.down }
func (m *linuxMonitor) Up() <-chan Binding   { return m.up }

// readEvents owns one keyboard device. If the OS closes or errors the
// tap (input overload, device reset), it re-opens the device and keeps
// watching rather than going dark. The stop channel is captured at
// launch: after a Stop/Start cycle a stale reader must honor the run it
// belongs to, not the new run's channel.
func (m *linuxMonitor) readEvents(path string, f *os.File, stop chan struct{}) {
	for {
		m.readLoop(f, stop)
		f.Close()

		select {
		case <-stop:
			return
		default:
		}
		log.Warnf("input tap lost on %s, re-arming", path)

		for {
			select {
			case <-stop:
				return
			case <-time.After(500 * time.Millisecond):
			}
			nf, err := os.Open(path)
			if err == nil {
				f = nf
				break
			}
		}
	}
}

func (m *linuxMonitor) readLoop(f *os.File, stop chan struct{}) {
	buf := make([]byte, inputEventSize*16)
	var mods Modifier
	var heldKey string
	var heldBinding Binding
	var holding bool

	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey {
				continue
			}
			pressed := evValue == keyPress
			released := evValue == keyRelease

			if mod, soloName, isMod := modifierFor(evCode); isMod {
				// Solo bindings on modifier-class keys: derive edges
				// from the state transition, only when no other
				// modifier is involved.
				if soloName != "" {
					if b, ok := m.bindings.solo(soloName); ok {
						if pressed && mods == 0 && !holding {
							holding = true
							heldKey = soloName
							heldBinding = b
							m.emit(m.down, b)
						} else if released && holding && heldKey == soloName {
							holding = false
							m.emit(m.up, heldBinding)
						}
					}
				}
				if pressed {
					mods |= mod
				} else if released {
					mods &^= mod
				}
				continue
			}

			name, ok := keyNames[evCode]
			if !ok {
				continue
			}
			if pressed && !holding {
				if b, matched := m.bindings.match(Event{Key: name, Mods: mods}); matched {
					holding = true
					heldKey = name
					heldBinding = b
					m.emit(m.down, b)
				}
			} else if released && holding && heldKey == name {
				holding = false
				m.emit(m.up, heldBinding)
			}
		}
	}
}

func (m *linuxMonitor) emit(ch chan Binding, b Binding) {
	select {
	case ch <- b:
	default:
	}
}

// modifierFor classifies an evdev code. soloName is non-empty for codes
// that may back a solo binding.
func modifierFor(code uint16) (Modifier, string, bool) {
	switch code {
	case codeLCtrl:
		return ModCtrl, "", true
	case codeRCtrl:
		return ModCtrl, "rightctrl", true
	case codeLShift, codeRShift:
		return ModShift, "", true
	case codeLAlt, codeRAlt:
		return ModAlt, "", true
	case codeLMeta:
		return ModCmd, "", true
	case codeRMeta:
		return ModCmd, "rightcmd", true
	}
	return 0, "", false
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, filepath.Join("/dev/input", e.Name()))
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(data))) > 10
}
