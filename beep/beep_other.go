//go:build !linux

package beep

import (
	"bytes"
	"encoding/binary"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"hushtype/log"
)

var (
	otoCtx      *oto.Context
	startBuffer []byte
	stopBuffer  []byte
	errorBuffer []byte
	soundOnce   sync.Once
)

func initSound() {
	var err error
	var ready chan struct{}
	otoCtx, ready, err = oto.NewContext(&oto.NewContextOptions{
		SampleRate:   playbackRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   50 * time.Millisecond,
	})
	if err != nil {
		log.Errorf("oto init error: %v", err)
		return
	}
	<-ready

	startBuffer = toBytes(generateTick(playbackRate, 1200, 0.03, 0.5, 60))
	stopBuffer = toBytes(generateTick(playbackRate, 900, 0.05, 0.5, 40))
	errorBuffer = toBytes(generateTick(playbackRate, 300, 0.15, 0.5, 20))
}

func toBytes(samples []int16) []byte {
	buf := new(bytes.Buffer)
	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, s)
	}
	return buf.Bytes()
}

func play(buffer []byte) {
	soundOnce.Do(initSound)
	if otoCtx == nil || len(buffer) == 0 {
		return
	}
	player := otoCtx.NewPlayer(bytes.NewReader(buffer))
	player.Play()
	go func() {
		for player.IsPlaying() {
		}
		player.Close()
	}()
}

func playStart() { play(startBuffer) }
func playStop()  { play(stopBuffer) }
func playError() { play(errorBuffer) }
