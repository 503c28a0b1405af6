// Package asset provides the textures the blob is drawn with: images loaded
// from disk, and procedural stand-ins generated when no file is given.
package asset

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"golang.org/x/image/vector"
)

// Noise octaves shared by the generated planets.
const (
	noiseAlpha  = 2.0
	noiseBeta   = 2.0
	noiseOctave = 4
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// circle adds a closed circular path to z.
func circle(z *vector.Rasterizer, cx, cy, r float32) {
	k := r * kappa
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}

// disc calls fn for every pixel of a size x size image that lies inside the
// inscribed circle, with coordinates normalized to [-1, 1] and the pixel's
// edge coverage in [0, 1].
func disc(size int, fn func(x, y int, nx, ny, cover float64)) {
	if size <= 0 {
		return
	}
	mask := image.NewAlpha(image.Rect(0, 0, size, size))
	var z vector.Rasterizer
	z.Reset(size, size)
	r := float32(size) / 2
	circle(&z, r, r, r)
	z.Draw(mask, mask.Rect, image.Opaque, image.Point{})

	rf := float64(r)
	for y := range size {
		for x := range size {
			a := mask.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			fn(x, y, (float64(x)+0.5-rf)/rf, (float64(y)+0.5-rf)/rf, float64(a)/255)
		}
	}
}

// limb darkens toward the rim so the disc reads as a sphere.
func limb(nx, ny float64) float64 {
	z := math.Sqrt(math.Max(0, 1-nx*nx-ny*ny))
	return 0.55 + 0.45*z
}

// Earth generates an opaque planet disc on a transparent square: Perlin
// continents over ocean with polar ice.
func Earth(size int, seed int64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	p := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed)
	disc(size, func(x, y int, nx, ny, cover float64) {
		n := p.Noise2D(nx*1.8+7.3, ny*1.8-2.1)*1.6 + 0.05
		var c color.NRGBA
		switch {
		case math.Abs(ny) > 0.86-0.08*n:
			c = ice
		case n > 0:
			c = ramp(landRamp, n)
		default:
			c = ramp(oceanRamp, n*2)
		}
		c = shade(c, limb(nx, ny))
		c.A = uint8(255 * cover)
		img.SetNRGBA(x, y, c)
	})
	return img
}

// Moon generates a grey cratered disc on a transparent square.
func Moon(size int, seed int64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	p := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed)
	rng := rand.New(rand.NewSource(seed))

	type crater struct{ x, y, r float64 }
	craters := make([]crater, 6+rng.Intn(6))
	for i := range craters {
		craters[i] = crater{x: rng.Float64()*1.6 - 0.8, y: rng.Float64()*1.6 - 0.8, r: 0.06 + rng.Float64()*0.18}
	}

	disc(size, func(x, y int, nx, ny, cover float64) {
		t := p.Noise2D(nx*3, ny*3) * 1.4
		for _, cr := range craters {
			d := math.Hypot(nx-cr.x, ny-cr.y) / cr.r
			switch {
			case d < 0.85:
				t -= 0.5
			case d < 1:
				t += 0.4
			}
		}
		c := shade(ramp(moonRamp, t), limb(nx, ny))
		c.A = uint8(255 * cover)
		img.SetNRGBA(x, y, c)
	})
	return img
}

// Starfield renders w x h of night sky: area/10000 bright stars up to 2px
// across and area/1000 faint ones up to 0.5px.
func Starfield(w, h int, seed int64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	rng := rand.New(rand.NewSource(seed))
	area := w * h
	for range area / 10000 {
		star(img, rng.Float64()*float64(w), rng.Float64()*float64(h), rng.Float64()*2)
	}
	for range area / 1000 {
		star(img, rng.Float64()*float64(w), rng.Float64()*float64(h), rng.Float64()*0.5)
	}
	return img
}

// star composites a white disc of radius r over img.
func star(img *image.RGBA, cx, cy, r float64) {
	rect := image.Rect(
		int(math.Floor(cx-r)), int(math.Floor(cy-r)),
		int(math.Ceil(cx+r)), int(math.Ceil(cy+r)),
	).Intersect(img.Rect)
	if rect.Empty() || r <= 0 {
		return
	}
	var z vector.Rasterizer
	z.Reset(rect.Dx(), rect.Dy())
	circle(&z, float32(cx)-float32(rect.Min.X), float32(cy)-float32(rect.Min.Y), float32(r))
	z.Draw(img, rect, image.White, image.Point{})
}
