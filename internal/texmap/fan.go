// Package texmap wraps an image around a deforming polygon. The polygon is
// cut into a fan of triangles anchored at its centroid; each triangle gets
// the affine transform that carries the matching circular sector of the
// image onto it.
package texmap

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivier-w/squishy/internal/geom"
)

// Segment is one fan triangle: centroid first, then two ring vertices.
type Segment struct {
	Screen  [3]r2.Vec
	Texture [3]r2.Vec
}

// FanSegments cuts ring into len(ring)/2 segments. Segment i spans ring
// vertices i*N/n and (i+1)*N/n mod N, and its texture triangle is the sector
// between angles 2πi/n and 2π(i+1)/n of the ellipse inscribed in a texW x
// texH image. Segments are appended to dst.
func FanSegments(dst []Segment, ring []r2.Vec, texW, texH float64) []Segment {
	nParts := len(ring)
	n := nParts / 2
	if n == 0 {
		return dst
	}
	center := geom.Centroid(ring)
	tc := r2.Vec{X: texW / 2, Y: texH / 2}
	for i := range n {
		j := i * nParts / n
		k := (i + 1) * nParts / n
		if k >= nParts {
			k = 0
		}
		a1 := 2 * math.Pi * float64(i) / float64(n)
		a2 := 2 * math.Pi * float64(i+1) / float64(n)
		dst = append(dst, Segment{
			Screen: [3]r2.Vec{center, ring[j], ring[k]},
			Texture: [3]r2.Vec{
				tc,
				{X: tc.X + math.Sin(a1)*tc.X, Y: tc.Y + math.Cos(a1)*tc.Y},
				{X: tc.X + math.Sin(a2)*tc.X, Y: tc.Y + math.Cos(a2)*tc.Y},
			},
		})
	}
	return dst
}

// ClipRegion returns the triangle p0, 2p1-p0, 2p2-p0: the segment plus its
// mirrored extension past the outer edge, so the wedge is painted out to and
// beyond the ring without touching neighbouring wedges.
func ClipRegion(scr [3]r2.Vec) []r2.Vec {
	p0, p1, p2 := scr[0], scr[1], scr[2]
	return []r2.Vec{
		p0,
		r2.Sub(r2.Scale(2, p1), p0),
		r2.Sub(r2.Scale(2, p2), p0),
	}
}

// DrawSegment paints tex onto one segment of s. It reports false and leaves
// s untouched when the texture triangle is degenerate.
func DrawSegment(s Surface, tex image.Image, seg Segment) bool {
	m, ok := SolveAffine(seg.Texture, seg.Screen)
	if !ok {
		return false
	}
	s.Save()
	s.Clip(ClipRegion(seg.Screen))
	s.Transform(m)
	s.DrawImage(tex, ImageBox(tex))
	s.Restore()
	return true
}

// Mapper draws a texture over a ring, reusing its segment buffer.
type Mapper struct {
	segs []Segment
}

// Draw wraps tex around ring on s and returns how many segments were
// painted. A nil texture is the "not loaded yet" case and draws nothing.
func (mp *Mapper) Draw(s Surface, tex image.Image, ring []r2.Vec) int {
	if tex == nil {
		return 0
	}
	b := tex.Bounds()
	mp.segs = FanSegments(mp.segs[:0], ring, float64(b.Dx()), float64(b.Dy()))
	drawn := 0
	for _, seg := range mp.segs {
		if DrawSegment(s, tex, seg) {
			drawn++
		}
	}
	return drawn
}

// Segments returns the segments computed by the last Draw.
func (mp *Mapper) Segments() []Segment { return mp.segs }
