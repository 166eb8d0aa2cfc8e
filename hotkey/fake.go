package hotkey

// FakeMonitor is a test double that lets tests simulate binding events.
type FakeMonitor struct {
	bindings bindingSet
	down     chan Binding
	up       chan Binding
	running  bool
}

func NewFake() *FakeMonitor {
	return &FakeMonitor{
		down: make(chan Binding, 1),
		up:   make(chan Binding, 1),
	}
}

func (f *FakeMonitor) Start() error {
	if f.running {
		return ErrAlreadyRunning
	}
	f.running = true
	return nil
}

func (f *FakeMonitor) Stop() { f.running = false }

func (f *FakeMonitor) Register(b Binding) error {
	return f.bindings.register(b)
}

func (f *FakeMonitor) ReplaceFromString(s string) error {
	b, err := ParseBinding(s)
	if err != nil {
		return err
	}
	f.bindings.replaceAll([]Binding{b})
	return nil
}

func (f *FakeMonitor) Down() <-chan Binding { return f.down }
func (f *FakeMonitor) Up() <-chan Binding   { return f.up }

// SimEvent runs an input event through binding matching, as the real
// tap would.
func (f *FakeMonitor) SimEvent(ev Event, pressed bool) {
	b, ok := f.bindings.match(ev)
	if !ok {
		return
	}
	if pressed {
		f.down <- b
	} else {
		f.up <- b
	}
}

// SimDown delivers a binding-down directly.
func (f *FakeMonitor) SimDown(b Binding) { f.down <- b }

// SimUp delivers a binding-up directly.
func (f *FakeMonitor) SimUp(b Binding) { f.up <- b }

// Bindings exposes the registered set for assertions.
func (f *FakeMonitor) Bindings() []Binding { return f.bindings.all() }
