package audio

import "math"

const (
	trimFrameMs    = 30
	trimHangoverMs = 300

	// Threshold floor keeps near-silent recordings from producing a
	// zero threshold where every frame would count as voiced.
	trimMinThreshold = 0.005

	// The threshold never rises above this fraction of the loudest
	// frame. Uniform input has near-zero spread, so an uncapped
	// mean+stddev threshold would sit above every frame and discard
	// the whole recording.
	trimPeakFraction = 0.9
)

// TrimSilence slices samples to the region between the first and last
// voiced frame. Frames are ~30 ms of RMS energy; a frame is voiced when
// its energy reaches an adaptive threshold of mean + (2-2*sensitivity)
// standard deviations, capped below the loudest frame. Each voiced run
// is extended forward by a ~300 ms hangover so trailing syllables
// survive. Returns an empty slice when no voiced region exists
// ("no speech", not an error).
func TrimSilence(samples []float32, sensitivity float64) []float32 {
	if len(samples) == 0 {
		return nil
	}
	if sensitivity < 0 {
		sensitivity = 0
	} else if sensitivity > 1 {
		sensitivity = 1
	}

	frameLen := SampleRate * trimFrameMs / 1000
	numFrames := len(samples) / frameLen
	if numFrames == 0 {
		// Shorter than one frame: judge the whole thing as one frame.
		numFrames = 1
		frameLen = len(samples)
	}

	energies := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		start := i * frameLen
		end := start + frameLen
		if end > len(samples) {
			end = len(samples)
		}
		var sum float64
		for _, s := range samples[start:end] {
			sum += float64(s) * float64(s)
		}
		energies[i] = math.Sqrt(sum / float64(end-start))
	}

	var mean, peak float64
	for _, e := range energies {
		mean += e
		if e > peak {
			peak = e
		}
	}
	mean /= float64(numFrames)

	var variance float64
	for _, e := range energies {
		d := e - mean
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(numFrames))

	threshold := mean + (2-2*sensitivity)*stddev
	if threshold > trimPeakFraction*peak {
		threshold = trimPeakFraction * peak
	}
	if threshold < trimMinThreshold {
		threshold = trimMinThreshold
	}

	voiced := make([]bool, numFrames)
	any := false
	for i, e := range energies {
		if e >= threshold {
			voiced[i] = true
			any = true
		}
	}
	if !any {
		return []float32{}
	}

	// Hangover: keep frames following a voiced frame.
	hangFrames := trimHangoverMs / trimFrameMs
	run := 0
	for i := range voiced {
		if voiced[i] {
			run = hangFrames
		} else if run > 0 {
			voiced[i] = true
			run--
		}
	}

	first, last := -1, -1
	for i, v := range voiced {
		if v {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	start := first * frameLen
	end := (last + 1) * frameLen
	if end > len(samples) {
		end = len(samples)
	}
	if last == numFrames-1 {
		// Keep the partial tail frame.
		end = len(samples)
	}
	if start < 0 || start >= end {
		// Defensive fallback: hand back the untouched input.
		return samples
	}
	return samples[start:end]
}
