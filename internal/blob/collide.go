package blob

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivier-w/squishy/internal/geom"
)

// CollideBounds clamps particles into the viewport. The previous position on
// the clamped axis is overwritten so that axis loses its velocity while the
// other axis keeps moving.
func (s *Simulation) CollideBounds() {
	b := s.bounds
	for i := range s.particles {
		p := &s.particles[i]
		if p.Pos.X < b.Min.X {
			p.Pos.X = b.Min.X
			p.Prev.X = p.Pos.X
		} else if p.Pos.X > b.Max.X {
			p.Pos.X = b.Max.X
			p.Prev.X = p.Pos.X
		}
		if p.Pos.Y < b.Min.Y {
			p.Pos.Y = b.Min.Y
			p.Prev.Y = p.Pos.Y
		} else if p.Pos.Y > b.Max.Y {
			p.Pos.Y = b.Max.Y
			p.Prev.Y = p.Pos.Y
		}
	}
}

// SetPointer moves the repulsor target. A target inside the blob is ignored
// so the pointer never catches the body it is pushing; the return value
// reports whether the target was taken.
func (s *Simulation) SetPointer(p r2.Vec) bool {
	if s.Contains(p) {
		return false
	}
	s.pointer = p
	s.hasPointer = true
	return true
}

// ClearPointer releases the repulsor.
func (s *Simulation) ClearPointer() {
	s.hasPointer = false
}

// Pointer returns the repulsor target and whether one is active.
func (s *Simulation) Pointer() (r2.Vec, bool) {
	return s.pointer, s.hasPointer
}

// CollidePointer pushes every particle inside the repulsor radius out to
// exactly that radius. A target the blob has flowed over is released first.
func (s *Simulation) CollidePointer() {
	s.contacts = 0
	if !s.hasPointer {
		return
	}
	if s.Contains(s.pointer) {
		s.hasPointer = false
		return
	}

	r := s.params.PointerRadius
	for i := range s.particles {
		p := &s.particles[i]
		d := r2.Sub(s.pointer, p.Pos)
		distSq := r2.Norm2(d)
		if distSq > r*r || distSq < geom.Epsilon*geom.Epsilon {
			continue
		}
		dist := r2.Norm(d)
		p.Pos = r2.Sub(p.Pos, r2.Scale(r/dist-1, d))
		s.contacts++
	}
}
