//go:build !linux

package hotkey

import (
	"fmt"
	"sync"

	xhk "golang.design/x/hotkey"

	"hushtype/log"
)

var xKeys = map[string]xhk.Key{
	"space": xhk.KeySpace, "enter": xhk.KeyReturn, "tab": xhk.KeyTab, "esc": xhk.KeyEscape,
	"1": xhk.Key1, "2": xhk.Key2, "3": xhk.Key3, "4": xhk.Key4, "5": xhk.Key5,
	"6": xhk.Key6, "7": xhk.Key7, "8": xhk.Key8, "9": xhk.Key9, "0": xhk.Key0,
	"a": xhk.KeyA, "b": xhk.KeyB, "c": xhk.KeyC, "d": xhk.KeyD, "e": xhk.KeyE,
	"f": xhk.KeyF, "g": xhk.KeyG, "h": xhk.KeyH, "i": xhk.KeyI, "j": xhk.KeyJ,
	"k": xhk.KeyK, "l": xhk.KeyL, "m": xhk.KeyM, "n": xhk.KeyN, "o": xhk.KeyO,
	"p": xhk.KeyP, "q": xhk.KeyQ, "r": xhk.KeyR, "s": xhk.KeyS, "t": xhk.KeyT,
	"u": xhk.KeyU, "v": xhk.KeyV, "w": xhk.KeyW, "x": xhk.KeyX, "y": xhk.KeyY,
	"z": xhk.KeyZ,
	"f1": xhk.KeyF1, "f2": xhk.KeyF2, "f3": xhk.KeyF3, "f4": xhk.KeyF4,
	"f5": xhk.KeyF5, "f6": xhk.KeyF6, "f7": xhk.KeyF7, "f8": xhk.KeyF8,
	"f9": xhk.KeyF9, "f10": xhk.KeyF10, "f11": xhk.KeyF11, "f12": xhk.KeyF12,
}

// xMonitor registers bindings through golang.design/x/hotkey
// (Cocoa/Win32). Solo bindings have no representation there and are
// skipped with a warning.
type xMonitor struct {
	bindings bindingSet
	down     chan Binding
	up       chan Binding

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	active  []*xhk.Hotkey
}

// NewMonitor builds the x/hotkey-backed monitor.
func NewMonitor() Monitor {
	return &xMonitor{
		down: make(chan Binding, 1),
		up:   make(chan Binding, 1),
	}
}

func (m *xMonitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return ErrAlreadyRunning
	}
	m.stop = make(chan struct{})
	if err := m.registerAllLocked(); err != nil {
		m.unregisterAllLocked()
		return err
	}
	m.running = true
	return nil
}

func (m *xMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	close(m.stop)
	m.unregisterAllLocked()
	m.running = false
}

func (m *xMonitor) Register(b Binding) error {
	if err := m.bindings.register(b); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return m.watchLocked(b)
	}
	return nil
}

func (m *xMonitor) ReplaceFromString(s string) error {
	b, err := ParseBinding(s)
	if err != nil {
		return err
	}
	for _, w := range ConflictWarnings(b) {
		log.Warnf("hotkey conflict: %s", w)
	}
	m.bindings.replaceAll([]Binding{b})

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.unregisterAllLocked()
		return m.registerAllLocked()
	}
	return nil
}

func (m *xMonitor) Down() <-chan Binding { return m.down }
func (m *xMonitor) Up() <-chan Binding   { return m.up }

func (m *xMonitor) registerAllLocked() error {
	for _, b := range m.bindings.all() {
		if !b.Enabled {
			continue
		}
		if err := m.watchLocked(b); err != nil {
			return err
		}
	}
	return nil
}

func (m *xMonitor) watchLocked(b Binding) error {
	if b.Solo() {
		log.Warnf("solo key binding %q not supported on this platform, skipping", b.Key)
		return nil
	}
	key, ok := xKeys[b.Key]
	if !ok {
		return fmt.Errorf("unsupported hotkey key %q", b.Key)
	}
	hk := xhk.New(xMods(b.Mods), key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("%w: %v", ErrPermission, err)
	}
	m.active = append(m.active, hk)

	stop := m.stop
	go func(binding Binding, hk *xhk.Hotkey) {
		for {
			select {
			case <-stop:
				return
			case <-hk.Keydown():
				select {
				case m.down <- binding:
				default:
				}
			case <-hk.Keyup():
				select {
				case m.up <- binding:
				default:
				}
			}
		}
	}(b, hk)
	return nil
}

func (m *xMonitor) unregisterAllLocked() {
	for _, hk := range m.active {
		hk.Unregister()
	}
	m.active = nil
}
