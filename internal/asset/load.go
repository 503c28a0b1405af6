package asset

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Load decodes a PNG, JPEG or GIF file into NRGBA, the layout the raster
// canvas samples directly.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding texture %s: %w", path, err)
	}
	return ToNRGBA(img), nil
}

// ToNRGBA returns img as an *image.NRGBA anchored at the origin, copying
// only when needed.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	return out
}

// Source names where a texture comes from: a file path, or "" for the
// generated default.
type Source struct {
	Path string
	Size int
	Seed int64
	Gen  func(size int, seed int64) *image.NRGBA
}

// Resolve loads the file when a path is set, otherwise generates.
func (s Source) Resolve() (*image.NRGBA, error) {
	if s.Path != "" {
		return Load(s.Path)
	}
	return s.Gen(s.Size, s.Seed), nil
}
