package blob

import "gonum.org/v1/gonum/spatial/r2"

const (
	DefaultParticles      = 40
	DefaultRadius         = 10.0
	DefaultTimeStep       = 1.0 / 60.0
	DefaultPerimeterIters = 5   // more means closer to a rigid outline
	DefaultRelax          = 0.9 // 1.0 would overshoot and oscillate
	DefaultGravity        = 9.8 // +y is down, matching screen space
	DefaultPointerRadius  = 5.0
	DefaultSubSteps       = 3
)

// Params holds the physical tuning of one blob.
type Params struct {
	Particles      int
	Radius         float64
	TimeStep       float64
	PerimeterIters int
	Relax          float64
	Gravity        r2.Vec
	PointerRadius  float64
}

// DefaultParams returns the tuning the blob was designed around.
func DefaultParams() Params {
	return Params{
		Particles:      DefaultParticles,
		Radius:         DefaultRadius,
		TimeStep:       DefaultTimeStep,
		PerimeterIters: DefaultPerimeterIters,
		Relax:          DefaultRelax,
		Gravity:        r2.Vec{Y: DefaultGravity},
		PointerRadius:  DefaultPointerRadius,
	}
}
