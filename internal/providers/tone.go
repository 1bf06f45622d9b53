package providers

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"alarm-service/internal/logging"
)

const (
	sampleRate = 44100
	// Gain envelope matching the alarm tone: start quiet, decay to near
	// silence by the end of the tone.
	startGain = 0.15
	endGain   = 0.01
)

// TonePlayer synthesizes and plays short sine tones on the host audio
// device. When no device is available the player silently does nothing.
type TonePlayer struct {
	logger *logging.Logger
	ctx    *oto.Context

	mu    sync.Mutex
	ready bool
}

// NewTonePlayer initializes the audio context. Initialization failure is
// tolerated; the returned player degrades to a no-op.
func NewTonePlayer(logger *logging.Logger) *TonePlayer {
	p := &TonePlayer{logger: logger}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		logger.Warnf("Audio context not available: %v", err)
		return p
	}
	p.ctx = ctx

	// Hardware readiness arrives asynchronously; tones requested before
	// that are dropped rather than queued.
	go func() {
		<-readyChan
		p.mu.Lock()
		p.ready = true
		p.mu.Unlock()
		logger.Infof("Audio context initialized")
	}()

	return p
}

// PlayTone plays a sine tone at frequencyHz for the given duration without
// blocking the caller.
func (p *TonePlayer) PlayTone(frequencyHz float64, duration time.Duration) {
	p.mu.Lock()
	ready := p.ready && p.ctx != nil
	p.mu.Unlock()
	if !ready {
		return
	}

	data := synthesizeTone(frequencyHz, duration)
	go func() {
		player := p.ctx.NewPlayer(bytes.NewReader(data))
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			p.logger.Warnf("Failed to close audio player: %v", err)
		}
	}()
}

// synthesizeTone renders a sine wave with an exponential decay envelope as
// signed 16-bit little-endian mono PCM.
func synthesizeTone(frequencyHz float64, duration time.Duration) []byte {
	seconds := duration.Seconds()
	n := int(sampleRate * seconds)
	buf := make([]byte, n*2)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		gain := startGain * math.Pow(endGain/startGain, t/seconds)
		sample := gain * math.Sin(2*math.Pi*frequencyHz*t)
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(sample*math.MaxInt16)))
	}
	return buf
}
