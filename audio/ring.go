package audio

import (
	"fmt"
	"sync"
)

// RingBuffer is a fixed-capacity circular sample store. Once full, new
// writes overwrite the oldest samples. It is written from the hardware
// callback thread and drained from the pipeline goroutine; the mutex
// protects only O(copy) critical sections and Write never allocates,
// so neither side can stall the other for long.
type RingBuffer struct {
	mu    sync.Mutex
	buf   []float32
	head  int // next write position
	count int
}

// NewRingBuffer allocates a buffer holding capacity samples. This is
// the only allocation the buffer ever performs.
func NewRingBuffer(capacity int) (*RingBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ring buffer capacity must be positive, got %d", capacity)
	}
	return &RingBuffer{buf: make([]float32, capacity)}, nil
}

// Write appends samples, discarding the oldest once capacity is
// exceeded. Writes larger than the whole buffer keep only the tail.
func (r *RingBuffer) Write(samples []float32) {
	if len(samples) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cap := len(r.buf)
	if len(samples) >= cap {
		copy(r.buf, samples[len(samples)-cap:])
		r.head = 0
		r.count = cap
		return
	}

	n := copy(r.buf[r.head:], samples)
	if n < len(samples) {
		copy(r.buf, samples[n:])
	}
	r.head = (r.head + len(samples)) % cap
	r.count += len(samples)
	if r.count > cap {
		r.count = cap
	}
}

// Drain returns all buffered samples in insertion order and empties the
// buffer. An empty buffer yields an empty slice.
func (r *RingBuffer) Drain() []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float32, r.count)
	if r.count == 0 {
		return out
	}
	start := (r.head - r.count + len(r.buf)) % len(r.buf)
	n := copy(out, r.buf[start:])
	if n < r.count {
		copy(out[n:], r.buf[:r.count-n])
	}
	r.head = 0
	r.count = 0
	return out
}

// Reset discards buffered samples without returning them.
func (r *RingBuffer) Reset() {
	r.mu.Lock()
	r.head = 0
	r.count = 0
	r.mu.Unlock()
}

// Len reports how many samples are currently buffered.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Cap reports the fixed capacity.
func (r *RingBuffer) Cap() int {
	return len(r.buf)
}
