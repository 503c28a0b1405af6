// Package scene draws one frame of the blob: starfield, the texture-wrapped
// ring, and the moon that marks the repulsor.
package scene

import (
	"image"
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivier-w/squishy/internal/asset"
	"github.com/olivier-w/squishy/internal/blob"
	"github.com/olivier-w/squishy/internal/texmap"
)

// Moon easing: fast enough to track a dragged pointer, damped to avoid
// wobble.
const (
	moonFrequency = 12.0
	moonDamping   = 1.0
)

// Scene renders a Simulation into a raster. It implements frame.Renderer.
type Scene struct {
	sim   *blob.Simulation
	scale float64 // pixels per simulation unit

	canvas     *texmap.Canvas
	background *image.RGBA
	stars      bool

	earth  image.Image
	moon   image.Image
	mapper texmap.Mapper
	moonAt follower

	ring     []r2.Vec
	segments int
}

// Options configures a Scene.
type Options struct {
	Scale float64
	FPS   int
	Stars bool
}

// New creates a scene for sim with an empty raster; call Resize before use.
func New(sim *blob.Simulation, opts Options) *Scene {
	return &Scene{
		sim:    sim,
		scale:  opts.Scale,
		canvas: texmap.NewCanvas(0, 0),
		stars:  opts.Stars,
		moonAt: newFollower(max(opts.FPS, 1), moonFrequency, moonDamping),
	}
}

// Resize reallocates the raster and regenerates the starfield.
func (s *Scene) Resize(w, h int, seed int64) {
	s.canvas = texmap.NewCanvas(w, h)
	if s.stars {
		s.background = asset.Starfield(w, h, seed)
	} else {
		s.background = nil
	}
	s.moonAt.reset()
}

// SetTextures installs the blob and pointer textures. Either may be nil
// while it is still loading.
func (s *Scene) SetTextures(earth, moon *image.NRGBA) {
	s.earth, s.moon = nil, nil
	if earth != nil {
		s.earth = earth
	}
	if moon != nil {
		s.moon = moon
	}
}

// Loaded reports whether the blob texture is available.
func (s *Scene) Loaded() bool { return s.earth != nil }

// Image returns the raster drawn by the last Render.
func (s *Scene) Image() *image.RGBA { return s.canvas.Image() }

// Segments returns how many fan segments the last Render painted.
func (s *Scene) Segments() int { return s.segments }

// ToSim converts a raster pixel position to simulation units.
func (s *Scene) ToSim(p r2.Vec) r2.Vec { return r2.Scale(1/s.scale, p) }

// ToScreen converts simulation units to raster pixels.
func (s *Scene) ToScreen(p r2.Vec) r2.Vec { return r2.Scale(s.scale, p) }

// Render draws background, blob and moon. Textures that have not loaded
// are skipped; the background is always drawn.
func (s *Scene) Render() {
	c := s.canvas
	c.Reset()
	if s.background != nil {
		c.CopyFrom(s.background)
	} else {
		c.Fill(color.RGBA{A: 255})
	}

	s.ring = s.ring[:0]
	for i := range s.sim.Len() {
		s.ring = append(s.ring, s.ToScreen(s.sim.Particle(i).Pos))
	}
	s.segments = s.mapper.Draw(c, s.earth, s.ring)

	target, ok := s.sim.Pointer()
	if !ok || s.earth == nil || s.moon == nil {
		s.moonAt.reset()
		return
	}
	at := s.ToScreen(s.moonAt.step(target))
	r := s.sim.Params().PointerRadius * s.scale
	c.DrawImage(s.moon, r2.Box{
		Min: r2.Sub(at, r2.Vec{X: r, Y: r}),
		Max: r2.Add(at, r2.Vec{X: r, Y: r}),
	})
}
