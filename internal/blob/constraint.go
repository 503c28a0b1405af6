package blob

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivier-w/squishy/internal/geom"
)

// FixPerimeter relaxes every edge toward the rest length. Corrections of a
// pass are accumulated and applied together, so edge order does not matter.
// The result approaches the rest length; it is not an exact solve.
func (s *Simulation) FixPerimeter() {
	n := len(s.particles)
	half := 0.5 * s.params.Relax
	for range s.params.PerimeterIters {
		for i := range n {
			next := (i + 1) % n
			d := r2.Sub(s.particles[next].Pos, s.particles[i].Pos)
			dist := r2.Norm(d)
			if dist < geom.Epsilon {
				dist = 1
			}
			corr := r2.Scale(half*(1-s.restEdge/dist), d)
			s.diff[i] = r2.Add(s.diff[i], corr)
			s.diff[next] = r2.Sub(s.diff[next], corr)
		}
		for i := range n {
			s.particles[i].Pos = r2.Add(s.particles[i].Pos, s.diff[i])
			s.diff[i] = r2.Vec{}
		}
	}
}

// ConserveArea fixes the perimeter, then extrudes each vertex along the sum
// of its two edge normals so the signed area moves back to the target.
// The normal direction follows the winding, as does the signed area, so the
// correction points the right way for either orientation.
func (s *Simulation) ConserveArea() {
	s.FixPerimeter()

	n := len(s.particles)
	var perimeter float64
	for i := range n {
		nrm, l := geom.EdgeNormal(s.particles[i].Pos, s.particles[(i+1)%n].Pos)
		s.normals[i] = nrm
		perimeter += l
	}
	if perimeter < geom.Epsilon {
		return
	}

	extrude := 0.5 * (s.targetArea - s.Area()) / perimeter
	for i := range n {
		next := (i + 1) % n
		// Sum, not mean: with the 0.5 in extrude each edge moves out by about
		// 2*extrude, which closes the whole area gap in one pass.
		push := r2.Scale(extrude, r2.Add(s.normals[i], s.normals[next]))
		s.particles[next].Pos = r2.Add(s.particles[next].Pos, push)
	}
}
