package blob

import "gonum.org/v1/gonum/spatial/r2"

// Integrate advances every particle one time step with position Verlet.
// Gravity is accumulated first; the accumulator is cleared afterwards.
func (s *Simulation) Integrate() {
	dt := s.params.TimeStep
	dt2 := dt * dt
	for i := range s.particles {
		p := &s.particles[i]
		p.Acc = r2.Add(p.Acc, s.params.Gravity)
		next := r2.Add(r2.Sub(r2.Scale(2, p.Pos), p.Prev), r2.Scale(dt2, p.Acc))
		p.Prev = p.Pos
		p.Pos = next
		p.Acc = r2.Vec{}
	}
}

// AddForce accumulates an acceleration on particle i for the next step.
func (s *Simulation) AddForce(i int, a r2.Vec) {
	s.particles[i].Acc = r2.Add(s.particles[i].Acc, a)
}
