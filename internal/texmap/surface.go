package texmap

import (
	"image"

	"gonum.org/v1/gonum/spatial/r2"
)

// Surface is a 2D drawing target with a transform and clip stack, the
// subset of a canvas context the mapper needs.
type Surface interface {
	// Save pushes the current transform and clip.
	Save()
	// Restore pops the state pushed by the matching Save.
	Restore()
	// Transform post-multiplies the current transform by m.
	Transform(m Affine)
	// Clip intersects the clip region with poly, given in current user space.
	Clip(poly []r2.Vec)
	// DrawImage paints img stretched over dst, given in current user space.
	DrawImage(img image.Image, dst r2.Box)
}

// ImageBox returns the user-space box that draws img at its natural size
// with its top-left corner at the origin.
func ImageBox(img image.Image) r2.Box {
	b := img.Bounds()
	return r2.Box{Max: r2.Vec{X: float64(b.Dx()), Y: float64(b.Dy())}}
}
