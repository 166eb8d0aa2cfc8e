//go:build linux

package beep

import (
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"

	"hushtype/log"
)

var (
	startSamples []int16
	stopSamples  []int16
	errorSamples []int16
	soundOnce    sync.Once
)

func initSound() {
	// 200ms tails give the PulseAudio buffer something to drain
	startSamples = interleave(generateTick(playbackRate, 1200, 0.2, 0.5, 60))
	stopSamples = interleave(generateTick(playbackRate, 900, 0.2, 0.5, 40))
	errorSamples = interleave(generateTick(playbackRate, 300, 0.3, 0.5, 20))
}

// interleave duplicates mono samples into L/R pairs for the stereo sink.
func interleave(mono []int16) []int16 {
	out := make([]int16, len(mono)*2)
	for i, s := range mono {
		out[i*2] = s
		out[i*2+1] = s
	}
	return out
}

func playSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}
	c, err := pulse.NewClient()
	if err != nil {
		log.Errorf("pulse playback error: %v", err)
		return
	}
	defer c.Close()

	pos := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if pos >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[pos:])
		pos += n
		return n, nil
	})
	stream, err := c.NewPlayback(reader,
		pulse.PlaybackStereo,
		pulse.PlaybackSampleRate(playbackRate),
		pulse.PlaybackLatency(0.1),
		pulse.PlaybackRawOption(func(p *proto.CreatePlaybackStream) {
			p.ChannelVolumes = proto.ChannelVolumes{uint32(proto.VolumeNorm), uint32(proto.VolumeNorm)}
		}),
	)
	if err != nil {
		log.Errorf("pulse playback error: %v", err)
		return
	}
	stream.Start()
	stream.Drain()
	stream.Stop()
	stream.Close()
}

func playStart() {
	soundOnce.Do(initSound)
	go playSamples(startSamples)
}

func playStop() {
	soundOnce.Do(initSound)
	go playSamples(stopSamples)
}

func playError() {
	soundOnce.Do(initSound)
	go playSamples(errorSamples)
}
