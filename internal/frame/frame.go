// Package frame advances a simulation and redraws it once per host frame.
package frame

// Scheduler is driven by a host-provided clock: one call per animation frame.
type Scheduler interface {
	Frame()
}

// Stepper advances a simulation by one fixed sub-step.
type Stepper interface {
	Step()
}

// Renderer draws the current simulation state.
type Renderer interface {
	Render()
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func()

func (f RendererFunc) Render() { f() }

// State is the driver's position inside a frame.
type State uint8

const (
	Idle State = iota
	Stepping
	Rendering
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Stepping:
		return "stepping"
	case Rendering:
		return "rendering"
	}
	return "unknown"
}

// Driver runs SubSteps fixed sub-steps then one render per Frame call. The
// time step is owned by the Stepper; wall-clock time between frames is
// ignored, so a slow host plays in slow motion rather than skipping.
type Driver struct {
	stepper  Stepper
	renderer Renderer
	subSteps int
	state    State
	frames   uint64
}

// NewDriver returns an idle driver. renderer may be nil to step headless.
func NewDriver(stepper Stepper, renderer Renderer, subSteps int) *Driver {
	if subSteps < 1 {
		subSteps = 1
	}
	return &Driver{stepper: stepper, renderer: renderer, subSteps: subSteps}
}

// Frame performs Idle -> Stepping -> Rendering -> Idle.
func (d *Driver) Frame() {
	d.state = Stepping
	for range d.subSteps {
		d.stepper.Step()
	}

	d.state = Rendering
	if d.renderer != nil {
		d.renderer.Render()
	}

	d.state = Idle
	d.frames++
}

// State reports where the driver is; observers see Stepping or Rendering
// only from inside the stepper or renderer.
func (d *Driver) State() State { return d.state }

// Frames returns how many frames have completed.
func (d *Driver) Frames() uint64 { return d.frames }

// SubSteps returns the sub-steps per frame.
func (d *Driver) SubSteps() int { return d.subSteps }
