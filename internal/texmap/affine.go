package texmap

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Affine is a 2D affine transform in canvas order:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity is the transform that leaves points unchanged.
var Identity = Affine{A: 1, D: 1}

// Translate returns a translation by t.
func Translate(t r2.Vec) Affine {
	return Affine{A: 1, D: 1, E: t.X, F: t.Y}
}

// Scale returns a scaling by sx, sy about the origin.
func Scale(sx, sy float64) Affine {
	return Affine{A: sx, D: sy}
}

// Apply maps p through m.
func (m Affine) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Mul returns the transform that applies n first, then m.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Det returns the determinant of the linear part.
func (m Affine) Det() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the inverse transform. ok is false when m is singular.
func (m Affine) Invert() (inv Affine, ok bool) {
	det := m.Det()
	if math.Abs(det) < 1e-12 {
		return Affine{}, false
	}
	inv.A = m.D / det
	inv.B = -m.B / det
	inv.C = -m.C / det
	inv.D = m.A / det
	inv.E = -(inv.A*m.E + inv.C*m.F)
	inv.F = -(inv.B*m.E + inv.D*m.F)
	return inv, true
}

// SolveAffine returns the transform taking the texture triangle tex onto the
// screen triangle scr, vertex for vertex. It expands the 3x3 determinants
// directly. ok is false when the texture triangle is degenerate.
func SolveAffine(tex, scr [3]r2.Vec) (Affine, bool) {
	u0, u1, u2 := tex[0].X, tex[1].X, tex[2].X
	v0, v1, v2 := tex[0].Y, tex[1].Y, tex[2].Y
	x0, x1, x2 := scr[0].X, scr[1].X, scr[2].X
	y0, y1, y2 := scr[0].Y, scr[1].Y, scr[2].Y

	delta := u0*v1 + v0*u2 + u1*v2 - v1*u2 - v0*u1 - u0*v2
	if math.Abs(delta) < 1e-9 {
		return Affine{}, false
	}

	da := x0*v1 + v0*x2 + x1*v2 - v1*x2 - v0*x1 - x0*v2
	db := u0*x1 + x0*u2 + u1*x2 - x1*u2 - x0*u1 - u0*x2
	dc := u0*v1*x2 + v0*x1*u2 + x0*u1*v2 - x0*v1*u2 - v0*u1*x2 - u0*x1*v2
	dd := y0*v1 + v0*y2 + y1*v2 - v1*y2 - v0*y1 - y0*v2
	de := u0*y1 + y0*u2 + u1*y2 - y1*u2 - y0*u1 - u0*y2
	df := u0*v1*y2 + v0*y1*u2 + y0*u1*v2 - y0*v1*u2 - v0*u1*y2 - u0*y1*v2

	return Affine{
		A: da / delta,
		B: dd / delta,
		C: db / delta,
		D: de / delta,
		E: dc / delta,
		F: df / delta,
	}, true
}
