package audio

import (
	"sync"
	"sync/atomic"
)

// FakeContext is a test double for Context.
type FakeContext struct {
	DeviceList []DeviceInfo
	Capture    *FakeCapture
}

func NewFakeContext() *FakeContext {
	return &FakeContext{Capture: NewFakeCapture(1)}
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) { return f.DeviceList, nil }

func (f *FakeContext) NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error) {
	f.Capture.channels = config.Channels
	return f.Capture, nil
}

func (f *FakeContext) Close() {}

// FakeCapture lets tests push data through the capture callback.
type FakeCapture struct {
	mu       sync.Mutex
	started  bool
	startErr error
	channels uint32
	callback atomic.Pointer[DataCallback]
}

func NewFakeCapture(channels uint32) *FakeCapture {
	return &FakeCapture{channels: channels}
}

func (f *FakeCapture) FailStart(err error) { f.startErr = err }

func (f *FakeCapture) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.mu.Lock()
	f.started = true
	f.mu.Unlock()
	return nil
}

func (f *FakeCapture) Stop() {
	f.mu.Lock()
	f.started = false
	f.mu.Unlock()
}

func (f *FakeCapture) Close() {}

func (f *FakeCapture) SetCallback(cb DataCallback) { f.callback.Store(&cb) }
func (f *FakeCapture) ClearCallback()              { f.callback.Store(nil) }
func (f *FakeCapture) DeviceName() string          { return "fake mic" }
func (f *FakeCapture) Channels() uint32            { return f.channels }

func (f *FakeCapture) Started() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

// Push delivers interleaved s16le bytes to the registered callback, as
// the hardware would.
func (f *FakeCapture) Push(data []byte) {
	cb := f.callback.Load()
	if cb != nil {
		(*cb)(data, uint32(len(data)/2/int(f.channels)))
	}
}
