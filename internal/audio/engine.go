// Package audio plays the optional looping soundtrack and the squish cue
// through a single oto context.
package audio

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	defaultRate     = 44100
	defaultChannels = 2
)

var (
	otoCtx     *oto.Context
	otoOnce    sync.Once
	otoInitErr error
)

// initOto creates the process-wide context. oto allows only one, so the
// first caller's format wins.
func initOto(rate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if otoInitErr == nil {
			<-ready
		}
	})
	return otoCtx, otoInitErr
}

// Options configures an Engine.
type Options struct {
	Music  string // optional soundtrack path
	Volume float64
	Cues   bool
}

// Engine owns the soundtrack and cue players.
type Engine struct {
	mu sync.Mutex

	ctx   *oto.Context
	file  *os.File
	music *oto.Player
	track *looper
	meta  Metadata

	cuePCM []byte
	cue    *oto.Player
	gate   gate
	cues   bool

	volume float64
	muted  bool
	paused bool
	closed bool
}

// Open starts audio output and, when opts.Music is set, the soundtrack.
func Open(opts Options) (*Engine, error) {
	rate, channels := defaultRate, defaultChannels
	e := &Engine{
		volume: clampVolume(opts.Volume),
		cues:   opts.Cues,
		gate:   gate{gap: cueGap},
	}

	var dec Decoder
	if opts.Music != "" {
		f, err := os.Open(opts.Music)
		if err != nil {
			return nil, fmt.Errorf("opening soundtrack: %w", err)
		}
		dec, err = OpenDecoder(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening soundtrack: %w", err)
		}
		e.file = f
		e.meta = ReadMetadata(opts.Music)
		rate, channels = dec.SampleRate(), dec.ChannelCount()
	}

	ctx, err := initOto(rate, channels)
	if err != nil {
		if e.file != nil {
			e.file.Close()
		}
		return nil, fmt.Errorf("initializing audio output: %w", err)
	}
	e.ctx = ctx
	e.cuePCM = SquishPCM(rate, channels)

	if dec != nil {
		e.track = &looper{dec: dec}
		e.music = ctx.NewPlayer(e.track)
		e.music.SetVolume(e.level())
		e.music.Play()
	}
	return e, nil
}

func clampVolume(v float64) float64 {
	return min(max(v, 0), 1)
}

func (e *Engine) level() float64 {
	if e.muted {
		return 0
	}
	return e.volume
}

func (e *Engine) apply() {
	if e.music != nil {
		e.music.SetVolume(e.level())
	}
	if e.cue != nil {
		e.cue.SetVolume(e.level())
	}
}

// Title returns the soundtrack title, or "" without one.
func (e *Engine) Title() string {
	if e.music == nil {
		return ""
	}
	return e.meta.String()
}

// Squish plays the contact cue unless one played too recently.
func (e *Engine) Squish() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.cues || e.muted || !e.gate.allow(time.Now()) {
		return
	}
	if e.cue != nil {
		e.cue.Pause()
	}
	e.cue = e.ctx.NewPlayer(bytes.NewReader(e.cuePCM))
	e.cue.SetVolume(e.level())
	e.cue.Play()
}

// SetPaused pauses or resumes the soundtrack.
func (e *Engine) SetPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.paused == paused {
		return
	}
	e.paused = paused
	if e.music == nil {
		return
	}
	if paused {
		e.music.Pause()
	} else {
		e.music.Play()
	}
}

// Volume returns the current volume (0.0 to 1.0).
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// AdjustVolume changes volume by delta, clamped to [0, 1].
func (e *Engine) AdjustVolume(delta float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = clampVolume(e.volume + delta)
	e.apply()
}

// ToggleMute silences or restores all output.
func (e *Engine) ToggleMute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = !e.muted
	e.apply()
}

// Muted reports whether output is muted.
func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// Close stops playback and releases the soundtrack file.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	if e.music != nil {
		e.music.Pause()
	}
	if e.cue != nil {
		e.cue.Pause()
	}
	if e.file != nil {
		e.file.Close()
	}
}
