// Package record captures rendered frames into an animated GIF.
package record

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
)

// Viewers play GIF delays below 2cs at 10cs, so capture is thinned to at
// most 50 frames per second.
const minDelay = 2

// Recorder buffers up to a fixed number of paletted frames.
type Recorder struct {
	limit  int
	stride int // keep every stride-th frame offered
	seen   int
	delay  int // hundredths of a second
	anim   gif.GIF
}

// New returns a recorder keeping at most limit frames of a stream running
// at fps.
func New(limit, fps int) *Recorder {
	fps = max(fps, 1)
	stride := (fps*minDelay + 99) / 100
	return &Recorder{
		limit:  max(limit, 0),
		stride: stride,
		delay:  max((100*stride+fps/2)/fps, minDelay),
	}
}

// Add quantizes img to the Plan9 palette and appends it, skipping frames
// between strides. It reports false once the recorder is full.
func (r *Recorder) Add(img image.Image) bool {
	if r.Full() {
		return false
	}
	r.seen++
	if (r.seen-1)%r.stride != 0 {
		return true
	}
	b := img.Bounds()
	if b.Empty() {
		return true
	}
	pm := image.NewPaletted(b, palette.Plan9)
	draw.Draw(pm, b, img, b.Min, draw.Src)
	r.anim.Image = append(r.anim.Image, pm)
	r.anim.Delay = append(r.anim.Delay, r.delay)
	return true
}

// Full reports whether the frame limit has been reached.
func (r *Recorder) Full() bool { return len(r.anim.Image) >= r.limit }

// Len returns the number of frames captured.
func (r *Recorder) Len() int { return len(r.anim.Image) }

// WriteTo encodes the captured frames.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	if len(r.anim.Image) == 0 {
		return 0, fmt.Errorf("no frames recorded")
	}
	cw := &countWriter{w: w}
	if err := gif.EncodeAll(cw, &r.anim); err != nil {
		return cw.n, fmt.Errorf("encoding gif: %w", err)
	}
	return cw.n, nil
}

// Save writes the animation to path.
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating recording: %w", err)
	}
	if _, err := r.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing recording: %w", err)
	}
	return nil
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
