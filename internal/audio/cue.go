package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// Squish cue shape: a falling sine sweep under an exponential decay.
const (
	cueLength = 140 * time.Millisecond
	cueFrom   = 540.0 // Hz
	cueTo     = 170.0 // Hz
	cueDecay  = 28.0  // 1/s
	cueGain   = 0.45
	cueGap    = 180 * time.Millisecond
)

// SquishPCM synthesizes the contact cue as 16-bit LE interleaved PCM.
func SquishPCM(sampleRate, channels int) []byte {
	frames := int(float64(sampleRate) * cueLength.Seconds())
	out := make([]byte, frames*channels*2)
	var phase float64
	for i := range frames {
		t := float64(i) / float64(sampleRate)
		frac := float64(i) / float64(frames)
		freq := cueFrom + (cueTo-cueFrom)*frac
		phase += 2 * math.Pi * freq / float64(sampleRate)
		env := math.Exp(-cueDecay*t) * (1 - frac)
		s := clamp16(int(math.Sin(phase) * env * cueGain * 32767))
		for ch := range channels {
			binary.LittleEndian.PutUint16(out[(i*channels+ch)*2:], uint16(s))
		}
	}
	return out
}

// gate rate-limits cues.
type gate struct {
	gap  time.Duration
	last time.Time
}

func (g *gate) allow(now time.Time) bool {
	if !g.last.IsZero() && now.Sub(g.last) < g.gap {
		return false
	}
	g.last = now
	return true
}
