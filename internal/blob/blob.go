// Package blob simulates a single closed ring of point masses held together by
// perimeter and area constraints and pushed around by a circular repulsor.
//
// All state lives on a Simulation; callers serialize access (the TUI does so
// by stepping from its Update loop).
package blob

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivier-w/squishy/internal/geom"
)

// Simulation owns the particle ring, its shape constants, the viewport
// bounds and the pointer target.
type Simulation struct {
	params    Params
	particles []Particle
	bounds    r2.Box

	restEdge   float64
	targetArea float64

	pointer    r2.Vec
	hasPointer bool
	contacts   int

	// scratch, sized once per layout
	pos     []r2.Vec
	diff    []r2.Vec
	normals []r2.Vec
}

// New creates a simulation whose ring is laid out around the centre of bounds.
func New(p Params, bounds r2.Box) *Simulation {
	if p.Particles < 3 {
		p.Particles = 3
	}
	s := &Simulation{params: p}
	s.Reset(bounds)
	return s
}

// Reset recreates the ring centred in bounds and recomputes the shape
// constants. The pointer is released.
func (s *Simulation) Reset(bounds r2.Box) {
	s.bounds = bounds
	c := r2.Scale(0.5, r2.Add(bounds.Min, bounds.Max))
	s.Layout(geom.Circle(c, s.params.Radius, s.params.Particles))
}

// Layout replaces the ring with pts at rest and derives the rest edge length
// from the first edge and the target area from the whole ring.
func (s *Simulation) Layout(pts []r2.Vec) {
	n := len(pts)
	s.particles = make([]Particle, n)
	for i, p := range pts {
		s.particles[i] = Particle{Pos: p, Prev: p}
	}
	s.pos = make([]r2.Vec, n)
	s.diff = make([]r2.Vec, n)
	s.normals = make([]r2.Vec, n)
	s.hasPointer = false
	s.contacts = 0

	s.restEdge = geom.Dist(pts[0], pts[1%n])
	s.targetArea = s.Area()
	s.FixPerimeter()
}

// SetBounds changes the viewport without touching the ring.
func (s *Simulation) SetBounds(b r2.Box) { s.bounds = b }

// Bounds returns the viewport rectangle in simulation units.
func (s *Simulation) Bounds() r2.Box { return s.bounds }

// Params returns the tuning in use.
func (s *Simulation) Params() Params { return s.params }

// SetGravity replaces the constant acceleration applied every step.
func (s *Simulation) SetGravity(g r2.Vec) { s.params.Gravity = g }

// Len returns the fixed particle count.
func (s *Simulation) Len() int { return len(s.particles) }

// Particle returns a copy of particle i.
func (s *Simulation) Particle(i int) Particle { return s.particles[i] }

// Positions appends the current positions to dst in ring order.
func (s *Simulation) Positions(dst []r2.Vec) []r2.Vec {
	for _, p := range s.particles {
		dst = append(dst, p.Pos)
	}
	return dst
}

// RestEdgeLength is the target length of every edge.
func (s *Simulation) RestEdgeLength() float64 { return s.restEdge }

// TargetArea is the signed area the area solver restores toward.
func (s *Simulation) TargetArea() float64 { return s.targetArea }

// Area returns the current signed area of the ring.
func (s *Simulation) Area() float64 {
	return geom.SignedArea(s.positions())
}

// Perimeter returns the current perimeter length.
func (s *Simulation) Perimeter() float64 {
	return geom.Perimeter(s.positions())
}

// Centroid returns the vertex mean of the ring.
func (s *Simulation) Centroid() r2.Vec {
	return geom.Centroid(s.positions())
}

// Contains reports whether p is inside the ring.
func (s *Simulation) Contains(p r2.Vec) bool {
	return geom.Contains(s.positions(), p)
}

// MeanSpeed returns the average particle speed over the last step, in units
// per second.
func (s *Simulation) MeanSpeed() float64 {
	if len(s.particles) == 0 || s.params.TimeStep <= 0 {
		return 0
	}
	var sum float64
	for _, p := range s.particles {
		sum += r2.Norm(p.Velocity())
	}
	return sum / float64(len(s.particles)) / s.params.TimeStep
}

// Contacts returns how many particles the repulsor pushed in the last step.
func (s *Simulation) Contacts() int { return s.contacts }

// Step advances one fixed sub-step: integrate, conserve area (which fixes the
// perimeter first), collide with the viewport, collide with the pointer.
func (s *Simulation) Step() {
	s.Integrate()
	s.ConserveArea()
	s.CollideBounds()
	s.CollidePointer()
}

func (s *Simulation) positions() []r2.Vec {
	s.pos = s.pos[:0]
	return s.Positions(s.pos)
}
