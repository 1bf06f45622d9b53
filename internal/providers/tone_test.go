package providers

import (
	"encoding/binary"
	"math"
	"testing"
	"time"
)

func TestSynthesizeTone(t *testing.T) {
	data := synthesizeTone(440, 500*time.Millisecond)

	wantLen := sampleRate / 2 * 2 // half a second of 16-bit mono samples
	if len(data) != wantLen {
		t.Fatalf("len = %d, want %d", len(data), wantLen)
	}

	peak := func(from, to int) float64 {
		var p float64
		for i := from; i < to; i++ {
			v := math.Abs(float64(int16(binary.LittleEndian.Uint16(data[i*2:]))))
			if v > p {
				p = v
			}
		}
		return p
	}

	n := len(data) / 2
	head := peak(0, n/4)
	tail := peak(3*n/4, n)
	if head <= tail {
		t.Errorf("envelope does not decay: head peak %.0f, tail peak %.0f", head, tail)
	}
	if head == 0 {
		t.Error("tone is silent")
	}
	if head > 0.2*math.MaxInt16 {
		t.Errorf("head peak %.0f exceeds the 0.15 gain ceiling", head)
	}
}
