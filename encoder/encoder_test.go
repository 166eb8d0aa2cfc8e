package encoder

import (
	"math"
	"testing"
)

func sine(n int, freq float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.4 * math.Sin(2*math.Pi*freq*float64(i)/float64(SampleRate)))
	}
	return out
}

func TestFloat32ToInt16Clamps(t *testing.T) {
	in := []float32{0, 0.5, -0.5, 1.5, -1.5, 1.0}
	out := Float32ToInt16(in)
	if out[0] != 0 {
		t.Errorf("0 -> %d", out[0])
	}
	if out[3] != 32767 {
		t.Errorf("overdriven positive sample = %d, want 32767", out[3])
	}
	if out[4] != -32768 {
		t.Errorf("overdriven negative sample = %d, want -32768", out[4])
	}
	if out[5] != 32767 {
		t.Errorf("full-scale sample = %d, want 32767", out[5])
	}
}

func TestEncodeFlacMagic(t *testing.T) {
	data, err := EncodeFlac(sine(SampleRate/2, 440))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 4 || string(data[:4]) != "fLaC" {
		t.Fatal("output does not start with FLAC magic")
	}

	rawSize := SampleRate / 2 * 2
	t.Logf("Raw: %d bytes, FLAC: %d bytes", rawSize, len(data))
}

func TestEncodeWavHeader(t *testing.T) {
	data, err := EncodeWav(sine(SampleRate/4, 440))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 44 {
		t.Fatalf("wav output too short: %d bytes", len(data))
	}
	if string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("bad wav header: %q %q", data[:4], data[8:12])
	}
}

func TestFlacPartialBlock(t *testing.T) {
	enc, err := NewFlac()
	if err != nil {
		t.Fatal(err)
	}
	partial := make([]int16, BlockSize/4)
	for i := range partial {
		partial[i] = int16(i % 1000)
	}
	if err := enc.EncodeBlock(partial); err != nil {
		t.Fatalf("EncodeBlock partial: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if enc.TotalFrames() != uint64(len(partial)) {
		t.Errorf("TotalFrames = %d, want %d", enc.TotalFrames(), len(partial))
	}
}

func TestWavTotalFrames(t *testing.T) {
	enc, err := NewWav()
	if err != nil {
		t.Fatal(err)
	}
	block := make([]int16, BlockSize)
	if err := enc.EncodeBlock(block); err != nil {
		t.Fatal(err)
	}
	if err := enc.EncodeBlock(block[:100]); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if enc.TotalFrames() != uint64(BlockSize+100) {
		t.Errorf("TotalFrames = %d, want %d", enc.TotalFrames(), BlockSize+100)
	}
}

func TestMemWriteSeeker(t *testing.T) {
	ws := &memWriteSeeker{}
	ws.Write([]byte("hello world"))
	if _, err := ws.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
	ws.Write([]byte("HELLO"))
	if got := string(ws.Bytes()); got != "HELLO world" {
		t.Errorf("got %q", got)
	}
}
