package scene

import (
	"github.com/charmbracelet/harmonica"
	"gonum.org/v1/gonum/spatial/r2"
)

// follower eases a drawn position toward a target with a critically damped
// spring, one update per rendered frame.
type follower struct {
	spring harmonica.Spring
	pos    r2.Vec
	vel    r2.Vec
	primed bool
}

func newFollower(fps int, frequency, damping float64) follower {
	return follower{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// step advances one frame toward target. The first call snaps.
func (f *follower) step(target r2.Vec) r2.Vec {
	if !f.primed {
		f.pos, f.vel, f.primed = target, r2.Vec{}, true
		return f.pos
	}
	f.pos.X, f.vel.X = f.spring.Update(f.pos.X, f.vel.X, target.X)
	f.pos.Y, f.vel.Y = f.spring.Update(f.pos.Y, f.vel.Y, target.Y)
	return f.pos
}

func (f *follower) reset() { f.primed = false }
