package texmap

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivier-w/squishy/internal/geom"
)

type canvasState struct {
	m    Affine
	clip *image.Alpha // device-space mask; nil is unclipped
}

// Canvas is a software Surface over an opaque RGBA raster. Clip polygons are
// rasterized into a mask with x/image/vector, and images are drawn through
// the current transform with x/image/draw nearest-neighbour sampling,
// composited source-over.
type Canvas struct {
	img   *image.RGBA
	state canvasState
	stack []canvasState
	z     vector.Rasterizer
}

// NewCanvas allocates a w x h raster with an identity transform.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		img:   image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0))),
		state: canvasState{m: Identity},
	}
}

// Image returns the backing raster.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Width returns the raster width in pixels.
func (c *Canvas) Width() int { return c.img.Rect.Dx() }

// Height returns the raster height in pixels.
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Reset drops any saved state and restores the identity transform.
func (c *Canvas) Reset() {
	c.stack = c.stack[:0]
	c.state = canvasState{m: Identity}
}

// Fill paints every pixel with col.
func (c *Canvas) Fill(col color.RGBA) {
	draw.Draw(c.img, c.img.Rect, image.NewUniform(col), image.Point{}, draw.Src)
}

// CopyFrom overwrites the raster with src where the two overlap.
func (c *Canvas) CopyFrom(src *image.RGBA) {
	if src == nil {
		return
	}
	draw.Draw(c.img, src.Rect, src, src.Rect.Min, draw.Src)
}

func (c *Canvas) Save() {
	c.stack = append(c.stack, c.state)
}

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) Transform(m Affine) {
	c.state.m = c.state.m.Mul(m)
}

// Clip intersects the clip with poly. Masks are never modified once built,
// so saved states can share them.
func (c *Canvas) Clip(poly []r2.Vec) {
	dev := make([]r2.Vec, len(poly))
	for i, p := range poly {
		dev[i] = c.state.m.Apply(p)
	}
	b := geom.Bounds(dev)
	rect := image.Rect(
		int(math.Floor(b.Min.X)), int(math.Floor(b.Min.Y)),
		int(math.Ceil(b.Max.X)), int(math.Ceil(b.Max.Y)),
	).Intersect(c.img.Rect)
	if old := c.state.clip; old != nil {
		rect = rect.Intersect(old.Rect)
	}
	if rect.Empty() || len(dev) < 3 {
		c.state.clip = image.NewAlpha(image.Rectangle{})
		return
	}

	mask := image.NewAlpha(rect)
	c.z.Reset(rect.Dx(), rect.Dy())
	ox, oy := float64(rect.Min.X), float64(rect.Min.Y)
	c.z.MoveTo(float32(dev[0].X-ox), float32(dev[0].Y-oy))
	for _, p := range dev[1:] {
		c.z.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	c.z.ClosePath()
	c.z.Draw(mask, rect, image.Opaque, image.Point{})
	harden(mask)

	if old := c.state.clip; old != nil {
		both := image.NewAlpha(rect)
		draw.DrawMask(both, rect, mask, rect.Min, old, rect.Min, draw.Src)
		mask = both
	}
	c.state.clip = mask
}

// harden turns edge coverage into a hard in/out mask, so adjacent clip
// polygons tile without a half-covered seam between them.
func harden(mask *image.Alpha) {
	for i, a := range mask.Pix {
		if a >= 0x80 {
			mask.Pix[i] = 0xff
		} else {
			mask.Pix[i] = 0
		}
	}
}

func (c *Canvas) DrawImage(img image.Image, dst r2.Box) {
	if img == nil {
		return
	}
	sb := img.Bounds()
	sw, sh := float64(sb.Dx()), float64(sb.Dy())
	if sw == 0 || sh == 0 {
		return
	}

	// image pixel space -> user space -> device space
	place := Translate(dst.Min).
		Mul(Scale((dst.Max.X-dst.Min.X)/sw, (dst.Max.Y-dst.Min.Y)/sh)).
		Mul(Translate(r2.Vec{X: -float64(sb.Min.X), Y: -float64(sb.Min.Y)}))
	m := c.state.m.Mul(place)
	if _, ok := m.Invert(); !ok {
		return
	}

	target := draw.Image(c.img)
	var opts draw.Options
	if clip := c.state.clip; clip != nil {
		if clip.Rect.Empty() {
			return
		}
		target = c.img.SubImage(clip.Rect).(*image.RGBA)
		opts.DstMask = clip
	}
	draw.NearestNeighbor.Transform(target, f64.Aff3{m.A, m.C, m.E, m.B, m.D, m.F}, img, sb, draw.Over, &opts)
}
