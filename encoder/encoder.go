// Package encoder turns captured PCM into compact upload formats for the
// transcription backend.
package encoder

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

type Encoder interface {
	EncodeBlock(block []int16) error
	Close() error
	Bytes() []byte
	TotalFrames() uint64
	Format() string
}

// Float32ToInt16 converts normalized float samples to 16-bit PCM with
// clamping.
func Float32ToInt16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := s * 32767
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return out
}

func encodeAll(enc Encoder, samples []float32) ([]byte, error) {
	block := Float32ToInt16(samples)
	for i := 0; i < len(block); i += BlockSize {
		end := i + BlockSize
		if end > len(block) {
			end = len(block)
		}
		if err := enc.EncodeBlock(block[i:end]); err != nil {
			return nil, err
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// EncodeFlac compresses samples into a complete FLAC stream.
func EncodeFlac(samples []float32) ([]byte, error) {
	enc, err := NewFlac()
	if err != nil {
		return nil, err
	}
	return encodeAll(enc, samples)
}

// EncodeWav wraps samples in a complete WAV container.
func EncodeWav(samples []float32) ([]byte, error) {
	enc, err := NewWav()
	if err != nil {
		return nil, err
	}
	return encodeAll(enc, samples)
}
