// Package beep plays short feedback tones at recording start and stop so
// the user knows the microphone state without looking at a screen.
package beep

import "math"

// Tone generators share these parameters with both playback backends.
const playbackRate = 44100

func generateTick(sampleRate int, freq, duration, volume, decay float64) []int16 {
	n := int(float64(sampleRate) * duration)
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		envelope := math.Exp(-t * decay)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
	}
	return samples
}

// Start plays the recording-started tick.
func Start() {
	playStart()
}

// Stop plays the recording-stopped tick.
func Stop() {
	playStop()
}

// Error plays a low buzz for failed pipelines.
func Error() {
	playError()
}
