//go:build linux

package hotkey

import (
	"os"
	"testing"
	"time"
)

func TestStaleReaderHonorsItsOwnStop(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	defer r.Close()

	m := NewMonitor().(*linuxMonitor)
	oldStop := make(chan struct{})

	done := make(chan struct{})
	go func() {
		m.readLoop(r, oldStop)
		close(done)
	}()

	// a restart installs a fresh channel on the monitor; the reader
	// keeps the one it was launched with
	m.mu.Lock()
	m.stop = make(chan struct{})
	m.mu.Unlock()

	close(oldStop)
	// unblock the pending read so the loop re-checks its channel
	if _, err := w.Write(make([]byte, inputEventSize)); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reader outlived its closed stop channel")
	}
}
