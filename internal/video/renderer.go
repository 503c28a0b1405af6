// Package video turns an RGBA raster into text a terminal can display.
package video

import (
	"image"
	"strings"
)

// Renderer converts a raster frame into a terminal string.
// It supports three styles:
//   - Colour (half-block): "▀" with fg = upper pixel, bg = lower pixel, so one
//     terminal row shows two pixel rows.
//   - ASCII (no colour): one brightness character per cell.
//   - Braille: a 2x4 dot grid per cell, optionally tinted.
//
// Each output pixel averages the box of source pixels that covers it, so a
// raster drawn at a multiple of the cell grid is filtered down cleanly.
type Renderer struct {
	mode    ColorMode
	braille bool
	sb      strings.Builder // reused across frames
}

// NewRenderer creates a renderer using the current terminal's colour support.
func NewRenderer() *Renderer {
	return &Renderer{mode: DetectColorMode()}
}

// NewRendererMode creates a renderer with a fixed colour mode.
func NewRendererMode(mode ColorMode) *Renderer {
	return &Renderer{mode: mode}
}

// Mode returns the colour mode in use.
func (r *Renderer) Mode() ColorMode { return r.mode }

// SetBraille switches between braille dots and the mode's default style.
func (r *Renderer) SetBraille(on bool) { r.braille = on }

// Render draws img into outW x outH terminal cells.
func (r *Renderer) Render(img *image.RGBA, outW, outH int) string {
	if img == nil || img.Rect.Empty() || outW <= 0 || outH <= 0 {
		return ""
	}

	r.sb.Reset()
	// worst case ~40 bytes of escapes per cell
	r.sb.Grow(outW * outH * 40)

	switch {
	case r.braille:
		r.renderBraille(img, outW, outH)
	case r.mode == ColorOff:
		r.renderASCII(img, outW, outH)
	default:
		r.renderHalfBlock(img, outW, outH)
	}
	return r.sb.String()
}

func (r *Renderer) renderHalfBlock(img *image.RGBA, outW, outH int) {
	pixelRows := outH * 2
	var lastFg, lastBg string

	for row := range outH {
		for col := range outW {
			tr, tg, tb := boxAverage(img, col, row*2, outW, pixelRows)
			br, bg, bb := boxAverage(img, col, row*2+1, outW, pixelRows)

			fg := colorSeq(r.mode, true, tr, tg, tb)
			bgc := colorSeq(r.mode, false, br, bg, bb)
			if fg != lastFg {
				r.sb.WriteString(fg)
				lastFg = fg
			}
			if bgc != lastBg {
				r.sb.WriteString(bgc)
				lastBg = bgc
			}
			r.sb.WriteString("▀")
		}

		r.sb.WriteString(ansiReset)
		lastFg, lastBg = "", ""
		if row < outH-1 {
			r.sb.WriteByte('\n')
		}
	}
}

func (r *Renderer) renderASCII(img *image.RGBA, outW, outH int) {
	for row := range outH {
		for col := range outW {
			pr, pg, pb := boxAverage(img, col, row, outW, outH)
			r.sb.WriteByte(brightnessChar(luminance(pr, pg, pb)))
		}
		if row < outH-1 {
			r.sb.WriteByte('\n')
		}
	}
}

// boxAverage returns the mean colour of the source pixels that fall in cell
// (cx, cy) of a gridW x gridH subdivision of img.
func boxAverage(img *image.RGBA, cx, cy, gridW, gridH int) (uint8, uint8, uint8) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	x0, x1 := cx*w/gridW, (cx+1)*w/gridW
	y0, y1 := cy*h/gridH, (cy+1)*h/gridH
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	x1, y1 = min(x1, w), min(y1, h)
	if x0 >= x1 || y0 >= y1 {
		return 0, 0, 0
	}

	var sr, sg, sb, n int
	for y := y0; y < y1; y++ {
		off := img.PixOffset(img.Rect.Min.X+x0, img.Rect.Min.Y+y)
		for x := x0; x < x1; x++ {
			sr += int(img.Pix[off])
			sg += int(img.Pix[off+1])
			sb += int(img.Pix[off+2])
			off += 4
			n++
		}
	}
	return uint8(sr / n), uint8(sg / n), uint8(sb / n)
}

// luminance computes perceived brightness (ITU-R BT.601).
func luminance(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}

// RasterSize returns the pixel size of a raster that fills cols x rows
// cells with supersample x supersample pixels per half-block. Cells are about
// twice as tall as wide, so the pixels come out square.
func RasterSize(cols, rows, supersample int) (w, h int) {
	if supersample < 1 {
		supersample = 1
	}
	return cols * supersample, rows * 2 * supersample
}
