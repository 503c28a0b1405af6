package asset

import (
	"image/color"
	"math"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	t = clamp01(t)
	return color.NRGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

func shade(c color.NRGBA, f float64) color.NRGBA {
	f = math.Max(f, 0)
	scale := func(v uint8) uint8 {
		return uint8(math.Min(float64(v)*f, 255))
	}
	return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

type colorStop struct {
	at float64
	c  color.NRGBA
}

// ramp interpolates between ordered stops; t outside the stops clamps.
func ramp(stops []colorStop, t float64) color.NRGBA {
	if t <= stops[0].at {
		return stops[0].c
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].at {
			lo, hi := stops[i-1], stops[i]
			return lerpColor(lo.c, hi.c, (t-lo.at)/(hi.at-lo.at))
		}
	}
	return stops[len(stops)-1].c
}

var (
	oceanRamp = []colorStop{
		{-1, color.NRGBA{R: 8, G: 22, B: 74, A: 255}},
		{0, color.NRGBA{R: 28, G: 84, B: 170, A: 255}},
	}
	landRamp = []colorStop{
		{0, color.NRGBA{R: 214, G: 196, B: 128, A: 255}}, // beach
		{0.08, color.NRGBA{R: 62, G: 140, B: 58, A: 255}},
		{0.35, color.NRGBA{R: 38, G: 96, B: 40, A: 255}},
		{0.55, color.NRGBA{R: 120, G: 100, B: 72, A: 255}},
		{0.8, color.NRGBA{R: 240, G: 240, B: 240, A: 255}},
	}
	moonRamp = []colorStop{
		{-1, color.NRGBA{R: 96, G: 96, B: 100, A: 255}},
		{1, color.NRGBA{R: 214, G: 212, B: 206, A: 255}},
	}
	ice = color.NRGBA{R: 236, G: 242, B: 248, A: 255}
)
