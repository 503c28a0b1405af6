package blob

import "gonum.org/v1/gonum/spatial/r2"

// Particle is one point mass on the ring. Velocity is implicit in Pos-Prev.
type Particle struct {
	Pos  r2.Vec
	Prev r2.Vec
	Acc  r2.Vec
}

// Velocity returns the displacement over the last step.
func (p Particle) Velocity() r2.Vec {
	return r2.Sub(p.Pos, p.Prev)
}
