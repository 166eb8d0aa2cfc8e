package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// ErrAlreadyCapturing is returned by StartCapture while a capture is in
// flight. Callers log it and carry on; it is never fatal.
var ErrAlreadyCapturing = errors.New("audio capture already in progress")

const (
	// Grace period between the stop signal and tearing down the
	// hardware tap, so in-flight device buffers get flushed.
	drainDelay = 200 * time.Millisecond

	// Input level metering cadence (~20 Hz). RMS is only computed on
	// chunks that pass this throttle, never per sample.
	levelInterval = 50 * time.Millisecond
)

// LevelFunc receives the throttled input level in [0,1]. It is invoked
// on the hardware callback thread and must return quickly.
type LevelFunc func(rms float64)

// RawTapFunc receives downmixed mono s16le bytes on the callback
// thread, for consumers that want the raw stream (live VAD).
type RawTapFunc func(data []byte)

// Engine owns the hardware input path. It converts whatever the device
// delivers into canonical 16 kHz mono float32 and feeds the ring
// buffer. Exactly one capture may be in flight.
type Engine struct {
	dev     CaptureDevice
	ring    *RingBuffer
	levelFn LevelFunc
	rawTap  RawTapFunc

	mu        sync.Mutex
	capturing bool

	channels  uint32
	active    atomic.Bool
	lastLevel atomic.Int64 // unix nanos of last level publish

	scratchF []float32
	scratchB []byte
}

// NewEngine builds an engine over dev with a ring buffer holding
// bufferSeconds of audio. Failure here is the fatal startup case.
func NewEngine(dev CaptureDevice, bufferSeconds int, levelFn LevelFunc) (*Engine, error) {
	if bufferSeconds <= 0 {
		return nil, fmt.Errorf("buffer length must be positive, got %ds", bufferSeconds)
	}
	ring, err := NewRingBuffer(SampleRate * bufferSeconds)
	if err != nil {
		return nil, err
	}
	return &Engine{dev: dev, ring: ring, levelFn: levelFn}, nil
}

// SetRawTap installs a tap for downmixed s16 bytes. Must be called
// before StartCapture.
func (e *Engine) SetRawTap(fn RawTapFunc) {
	e.rawTap = fn
}

// DeviceName reports the underlying capture device name.
func (e *Engine) DeviceName() string {
	return e.dev.DeviceName()
}

// StartCapture arms the hardware tap. Returns ErrAlreadyCapturing if a
// capture is already running.
func (e *Engine) StartCapture() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.capturing {
		return ErrAlreadyCapturing
	}

	e.channels = e.dev.Channels()
	if e.channels == 0 {
		e.channels = 1
	}
	e.ring.Reset()
	e.active.Store(true)
	e.dev.SetCallback(e.onData)
	if err := e.dev.Start(); err != nil {
		e.active.Store(false)
		e.dev.ClearCallback()
		return fmt.Errorf("starting capture device: %w", err)
	}
	e.capturing = true
	return nil
}

// StopCapture halts the tap after the drain delay and returns all
// buffered samples. Safe to call while not capturing (returns empty).
func (e *Engine) StopCapture() []float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.capturing {
		return nil
	}
	time.Sleep(drainDelay)
	e.active.Store(false)
	e.dev.Stop()
	e.dev.ClearCallback()
	e.capturing = false
	return e.ring.Drain()
}

// Capturing reports whether a capture is in flight.
func (e *Engine) Capturing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.capturing
}

// onData runs on the hardware callback thread. It must stay within a
// small fixed budget: format-convert, ring write, throttled metering.
// The scratch buffers are reused across calls (single producer), so
// steady state performs no allocation.
func (e *Engine) onData(data []byte, frameCount uint32) {
	if !e.active.Load() || len(data) < 2 {
		return
	}

	ch := int(e.channels)
	frames := len(data) / 2 / ch
	if frames == 0 {
		return
	}
	if cap(e.scratchF) < frames {
		e.scratchF = make([]float32, frames)
		e.scratchB = make([]byte, frames*2)
	}
	mono := e.scratchF[:frames]
	raw := e.scratchB[:frames*2]

	for f := 0; f < frames; f++ {
		var sum int32
		base := f * ch * 2
		for c := 0; c < ch; c++ {
			o := base + c*2
			sum += int32(int16(uint16(data[o]) | uint16(data[o+1])<<8))
		}
		avg := int16(sum / int32(ch))
		mono[f] = float32(avg) / 32768.0
		raw[f*2] = byte(uint16(avg))
		raw[f*2+1] = byte(uint16(avg) >> 8)
	}

	e.ring.Write(mono)
	if e.rawTap != nil {
		e.rawTap(raw)
	}

	if e.levelFn != nil {
		now := time.Now().UnixNano()
		last := e.lastLevel.Load()
		if now-last >= int64(levelInterval) && e.lastLevel.CompareAndSwap(last, now) {
			var sumSquares float64
			for _, s := range mono {
				sumSquares += float64(s) * float64(s)
			}
			e.levelFn(math.Sqrt(sumSquares / float64(len(mono))))
		}
	}
}
