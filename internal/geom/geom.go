// Package geom holds the small amount of planar geometry the blob needs.
// A polygon is an ordered ring of vertices; the edge after vertex i ends at
// vertex (i+1) mod n. Winding is not assumed: signed quantities follow it.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon guards divisions by lengths and distances that may collapse to zero.
const Epsilon = 1e-4

// Dist returns the Euclidean distance between a and b.
func Dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(b, a))
}

// Angle returns the direction of the vector from a to b in radians.
func Angle(a, b r2.Vec) float64 {
	d := r2.Sub(b, a)
	return math.Atan2(d.Y, d.X)
}

// EdgeNormal returns the unit normal (dy, -dx)/|d| of the edge a->b and the
// edge length. A degenerate edge reports length 1 and a zero normal.
func EdgeNormal(a, b r2.Vec) (r2.Vec, float64) {
	d := r2.Sub(b, a)
	l := r2.Norm(d)
	if l < Epsilon {
		return r2.Vec{}, 1
	}
	return r2.Vec{X: d.Y / l, Y: -d.X / l}, l
}

// SignedArea returns the shoelace area of poly. The sign follows the winding.
func SignedArea(poly []r2.Vec) float64 {
	n := len(poly)
	if n < 3 {
		return 0
	}
	var area float64
	for i := range n {
		a, b := poly[i], poly[(i+1)%n]
		area += r2.Cross(a, b)
	}
	return 0.5 * area
}

// Perimeter returns the summed edge length of the closed ring.
func Perimeter(poly []r2.Vec) float64 {
	n := len(poly)
	var p float64
	for i := range n {
		p += Dist(poly[i], poly[(i+1)%n])
	}
	return p
}

// Centroid returns the vertex mean of poly.
func Centroid(poly []r2.Vec) r2.Vec {
	if len(poly) == 0 {
		return r2.Vec{}
	}
	var c r2.Vec
	for _, p := range poly {
		c = r2.Add(c, p)
	}
	return r2.Scale(1/float64(len(poly)), c)
}

// Contains reports whether p lies inside poly using the even-odd rule.
// Points exactly on an edge may land on either side.
func Contains(poly []r2.Vec, p r2.Vec) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y <= p.Y && p.Y < b.Y) || (b.Y <= p.Y && p.Y < a.Y) {
			if p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
				inside = !inside
			}
		}
	}
	return inside
}

// Bounds returns the axis-aligned bounding box of poly.
func Bounds(poly []r2.Vec) r2.Box {
	if len(poly) == 0 {
		return r2.Box{}
	}
	b := r2.Box{Min: poly[0], Max: poly[0]}
	for _, p := range poly[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// Circle returns n points evenly spaced on a circle of radius r around c,
// starting at angle 0 with x = sin and y = cos.
func Circle(c r2.Vec, r float64, n int) []r2.Vec {
	pts := make([]r2.Vec, n)
	for i := range n {
		ang := float64(i) * 2 * math.Pi / float64(n)
		pts[i] = r2.Vec{X: c.X + math.Sin(ang)*r, Y: c.Y + math.Cos(ang)*r}
	}
	return pts
}
