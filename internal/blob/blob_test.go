package blob

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivier-w/squishy/internal/geom"
)

func box(x0, y0, x1, y1 float64) r2.Box {
	return r2.Box{Min: r2.Vec{X: x0, Y: y0}, Max: r2.Vec{X: x1, Y: y1}}
}

func weightless(n int) Params {
	p := DefaultParams()
	p.Particles = n
	p.Gravity = r2.Vec{}
	return p
}

func meanEdgeDeviation(s *Simulation) float64 {
	n := s.Len()
	var sum float64
	for i := range n {
		l := geom.Dist(s.particles[i].Pos, s.particles[(i+1)%n].Pos)
		sum += math.Abs(l - s.restEdge)
	}
	return sum / float64(n)
}

func TestNewComputesShapeConstants(t *testing.T) {
	s := New(weightless(8), box(-100, -100, 100, 100))
	if s.Len() != 8 {
		t.Fatalf("expected 8 particles, got %d", s.Len())
	}
	wantEdge := 2 * 10 * math.Sin(math.Pi/8)
	if math.Abs(s.RestEdgeLength()-wantEdge) > 1e-9 {
		t.Fatalf("expected rest edge %f, got %f", wantEdge, s.RestEdgeLength())
	}
	wantArea := 2 * math.Sqrt2 * 100
	if math.Abs(math.Abs(s.TargetArea())-wantArea) > 1e-9 {
		t.Fatalf("expected |target area| %f, got %f", wantArea, s.TargetArea())
	}
	if c := s.Centroid(); r2.Norm(c) > 1e-9 {
		t.Fatalf("expected ring centred on origin, got %v", c)
	}
	for i := range s.Len() {
		p := s.Particle(i)
		if p.Pos != p.Prev || p.Acc != (r2.Vec{}) {
			t.Fatalf("particle %d not at rest: %+v", i, p)
		}
	}
}

func TestIntegrateVerletUpdate(t *testing.T) {
	p := weightless(3)
	p.Gravity = r2.Vec{Y: 10}
	p.TimeStep = 0.1
	s := New(p, box(-100, -100, 100, 100))
	s.particles[0] = Particle{Pos: r2.Vec{X: 1, Y: 1}, Prev: r2.Vec{X: 0.5, Y: 1}}
	s.AddForce(0, r2.Vec{X: 100})

	s.Integrate()

	got := s.Particle(0)
	want := r2.Vec{X: 1 + 0.5 + 100*0.01, Y: 1 + 10*0.01}
	if r2.Norm(r2.Sub(got.Pos, want)) > 1e-12 {
		t.Fatalf("expected pos %v, got %v", want, got.Pos)
	}
	if got.Prev != (r2.Vec{X: 1, Y: 1}) {
		t.Fatalf("expected prev to take old pos, got %v", got.Prev)
	}
	if got.Acc != (r2.Vec{}) {
		t.Fatalf("expected accumulator cleared, got %v", got.Acc)
	}
}

func TestMeanSpeedFromLastStep(t *testing.T) {
	p := weightless(8)
	p.Gravity = r2.Vec{Y: 10}
	p.TimeStep = 0.1
	s := New(p, box(-100, -100, 100, 100))
	if got := s.MeanSpeed(); got > 1e-9 {
		t.Fatalf("expected a ring at rest, got speed %v", got)
	}

	s.Integrate()

	// each particle fell g*dt^2 in one step of dt
	if got := s.MeanSpeed(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected mean speed 1, got %v", got)
	}
	if v := s.Particle(3).Velocity(); math.Abs(v.Y-0.1) > 1e-9 || math.Abs(v.X) > 1e-9 {
		t.Fatalf("expected velocity (0, 0.1), got %v", v)
	}
}

func TestFixPerimeterConverges(t *testing.T) {
	for _, n := range []int{8, 40} {
		s := New(weightless(n), box(-100, -100, 100, 100))
		for i := range s.particles {
			s.particles[i].Pos = r2.Scale(1.2, s.particles[i].Pos)
		}
		prev := meanEdgeDeviation(s)
		for iter := range 10 {
			s.FixPerimeter()
			dev := meanEdgeDeviation(s)
			if dev >= prev {
				t.Fatalf("n=%d iter %d: deviation did not decrease: %g -> %g", n, iter, prev, dev)
			}
			prev = dev
		}
	}
}

func TestFixPerimeterReducesLocalDisplacement(t *testing.T) {
	s := New(weightless(40), box(-100, -100, 100, 100))
	tangent := r2.Unit(r2.Sub(s.particles[8].Pos, s.particles[6].Pos))
	s.particles[7].Pos = r2.Add(s.particles[7].Pos, r2.Scale(0.1*s.restEdge, tangent))
	before := meanEdgeDeviation(s)
	for range 20 {
		s.FixPerimeter()
	}
	if after := meanEdgeDeviation(s); after >= before {
		t.Fatalf("expected deviation to shrink, before %g after %g", before, after)
	}
}

func TestFixPerimeterDegenerateEdge(t *testing.T) {
	s := New(weightless(4), box(-100, -100, 100, 100))
	for i := range s.particles {
		s.particles[i].Pos = r2.Vec{}
	}
	s.ConserveArea()
	for i := range s.Len() {
		p := s.Particle(i).Pos
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Fatalf("particle %d became NaN", i)
		}
	}
}

func TestConserveAreaRestoresTarget(t *testing.T) {
	s := New(weightless(40), box(-100, -100, 100, 100))
	s.targetArea *= 1.02

	// one pass closes the whole 2% gap; half-strength normals would leave 1%
	s.ConserveArea()

	if err := math.Abs(s.Area()-s.targetArea) / math.Abs(s.targetArea); err > 1e-3 {
		t.Fatalf("expected area within 0.1%% of target, relative error %g", err)
	}
}

func TestCollideBoundsClampsAxis(t *testing.T) {
	s := New(weightless(3), box(0, 0, 100, 50))
	s.particles[0] = Particle{Pos: r2.Vec{X: -5, Y: 20}, Prev: r2.Vec{X: 1, Y: 7}}
	s.particles[1] = Particle{Pos: r2.Vec{X: 30, Y: 60}, Prev: r2.Vec{X: 29, Y: 55}}
	s.particles[2] = Particle{Pos: r2.Vec{X: 120, Y: -1}, Prev: r2.Vec{X: 110, Y: 3}}

	s.CollideBounds()

	tests := []struct {
		i         int
		pos, prev r2.Vec
	}{
		{0, r2.Vec{X: 0, Y: 20}, r2.Vec{X: 0, Y: 7}},
		{1, r2.Vec{X: 30, Y: 50}, r2.Vec{X: 29, Y: 50}},
		{2, r2.Vec{X: 100, Y: 0}, r2.Vec{X: 100, Y: 0}},
	}
	for _, tt := range tests {
		got := s.Particle(tt.i)
		if got.Pos != tt.pos || got.Prev != tt.prev {
			t.Fatalf("particle %d: expected pos %v prev %v, got pos %v prev %v", tt.i, tt.pos, tt.prev, got.Pos, got.Prev)
		}
	}
}

func TestCollidePointerPushesToRadius(t *testing.T) {
	s := New(weightless(40), box(0, 0, 100, 100))
	target := r2.Vec{X: 50, Y: 63}
	if !s.SetPointer(target) {
		t.Fatal("expected pointer outside the blob to be accepted")
	}
	before := s.Positions(nil)

	s.CollidePointer()

	r := s.params.PointerRadius
	pushed := 0
	for i, b := range before {
		after := s.Particle(i).Pos
		if geom.Dist(b, target) < r {
			pushed++
			if d := geom.Dist(after, target); math.Abs(d-r) > 1e-9 {
				t.Fatalf("particle %d: expected distance %f, got %f", i, r, d)
			}
			continue
		}
		if after != b {
			t.Fatalf("particle %d outside radius moved from %v to %v", i, b, after)
		}
	}
	if pushed == 0 {
		t.Fatal("expected at least one particle inside the repulsor")
	}
	if s.Contacts() != pushed {
		t.Fatalf("expected %d contacts, got %d", pushed, s.Contacts())
	}
}

func TestCollidePointerSkipsCoincidentParticle(t *testing.T) {
	s := New(weightless(40), box(0, 0, 100, 100))
	s.SetPointer(r2.Vec{X: 50, Y: 75})
	onTarget := r2.Vec{X: 50.00001, Y: 75}
	s.particles[0].Pos = onTarget

	s.CollidePointer()

	if _, ok := s.Pointer(); !ok {
		t.Fatal("expected pointer to stay active")
	}
	if got := s.Particle(0).Pos; got != onTarget {
		t.Fatalf("expected coincident particle untouched, got %v", got)
	}
}

func TestSetPointerIgnoresTargetInsideBlob(t *testing.T) {
	s := New(weightless(40), box(0, 0, 100, 100))
	outside := r2.Vec{X: 5, Y: 5}
	s.SetPointer(outside)

	if s.SetPointer(s.Centroid()) {
		t.Fatal("expected target inside blob to be rejected")
	}
	got, ok := s.Pointer()
	if !ok || got != outside {
		t.Fatalf("expected pointer to stay at %v, got %v (active %v)", outside, got, ok)
	}
}

func TestCollidePointerReleasesCoveredTarget(t *testing.T) {
	s := New(weightless(40), box(0, 0, 100, 100))
	s.SetPointer(r2.Vec{X: 50, Y: 63})
	for i := range s.particles {
		s.particles[i].Pos = r2.Add(s.particles[i].Pos, r2.Vec{Y: 13})
	}

	s.CollidePointer()

	if _, ok := s.Pointer(); ok {
		t.Fatal("expected pointer covered by the blob to be released")
	}
	if s.Contacts() != 0 {
		t.Fatalf("expected no contacts, got %d", s.Contacts())
	}
}

func TestStepKeepsShapeWithoutForces(t *testing.T) {
	s := New(weightless(8), box(-100, -100, 100, 100))
	for range 100 {
		s.Step()
	}
	if s.Len() != 8 {
		t.Fatalf("particle count changed to %d", s.Len())
	}
	if err := math.Abs(s.Area()-s.TargetArea()) / math.Abs(s.TargetArea()); err > 0.01 {
		t.Fatalf("area drifted by %.3f%%", err*100)
	}
	want := 8 * s.RestEdgeLength()
	if err := math.Abs(s.Perimeter()-want) / want; err > 0.01 {
		t.Fatalf("perimeter drifted by %.3f%%", err*100)
	}
}

func TestStepSettlesAboveFloor(t *testing.T) {
	p := DefaultParams()
	p.Gravity = r2.Vec{Y: -DefaultGravity}
	s := New(p, box(0, 0, 100, 100))
	for range 600 {
		s.Step()
		for i := range s.Len() {
			if y := s.Particle(i).Pos.Y; y < 0 {
				t.Fatalf("particle %d escaped the floor: y=%f", i, y)
			}
		}
	}
	if b := geom.Bounds(s.Positions(nil)); b.Min.Y > 0.5 {
		t.Fatalf("expected blob resting on the floor, lowest y=%f", b.Min.Y)
	}
}

func TestStepWithPointerStaysFinite(t *testing.T) {
	s := New(DefaultParams(), box(0, 0, 60, 40))
	for frame := range 300 {
		s.SetPointer(r2.Vec{X: float64(frame%60) + 0.5, Y: 35})
		s.Step()
	}
	if s.Len() != DefaultParticles {
		t.Fatalf("particle count changed to %d", s.Len())
	}
	for i := range s.Len() {
		p := s.Particle(i).Pos
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Fatalf("particle %d is not finite: %v", i, p)
		}
	}
}
