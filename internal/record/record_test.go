package record

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"path/filepath"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestAddStopsAtLimit(t *testing.T) {
	r := New(2, 30)
	for i := range 3 {
		ok := r.Add(solid(4, 4, color.RGBA{R: 255, A: 255}))
		if want := i < 2; ok != want {
			t.Fatalf("frame %d: expected %v, got %v", i, want, ok)
		}
	}
	if r.Len() != 2 || !r.Full() {
		t.Fatalf("expected full recorder with 2 frames, got %d", r.Len())
	}
}

func TestWriteToRoundTrip(t *testing.T) {
	r := New(10, 25)
	r.Add(solid(6, 3, color.RGBA{A: 255}))
	r.Add(solid(6, 3, color.RGBA{R: 255, G: 255, B: 255, A: 255}))

	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("expected count %d, got %d", buf.Len(), n)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(g.Image) != 2 || g.Delay[0] != 4 {
		t.Fatalf("expected 2 frames with delay 4, got %d frames delay %v", len(g.Image), g.Delay)
	}
	r0, _, _, _ := g.Image[1].At(0, 0).RGBA()
	if r0>>8 < 240 {
		t.Fatalf("expected white second frame, got red %d", r0>>8)
	}
}

func TestHighFrameRatesAreThinned(t *testing.T) {
	tests := []struct {
		fps, stride, delay int
	}{
		{25, 1, 4},
		{30, 1, 3},
		{50, 1, 2},
		{60, 2, 3},
		{120, 3, 3},
		{0, 1, 100},
	}
	for _, tt := range tests {
		r := New(100, tt.fps)
		if r.stride != tt.stride || r.delay != tt.delay {
			t.Fatalf("fps %d: expected stride %d delay %d, got %d and %d", tt.fps, tt.stride, tt.delay, r.stride, r.delay)
		}
	}

	r := New(100, 60)
	for range 7 {
		if !r.Add(solid(2, 2, color.RGBA{A: 255})) {
			t.Fatal("expected frame accepted")
		}
	}
	if r.Len() != 4 {
		t.Fatalf("expected every second frame kept, got %d", r.Len())
	}
	for _, d := range r.anim.Delay {
		if d < minDelay {
			t.Fatalf("expected delay at least %d, got %d", minDelay, d)
		}
	}
}

func TestWriteToEmptyFails(t *testing.T) {
	if _, err := New(5, 30).WriteTo(&bytes.Buffer{}); err == nil {
		t.Fatal("expected error for empty recording")
	}
}

func TestSave(t *testing.T) {
	r := New(1, 30)
	r.Add(solid(2, 2, color.RGBA{B: 255, A: 255}))
	if err := r.Save(filepath.Join(t.TempDir(), "out.gif")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Save(filepath.Join(t.TempDir(), "missing", "out.gif")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
