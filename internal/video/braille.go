package video

import "image"

// Dot (col, row) to bit offset inside U+2800:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// dotThreshold is the luminance above which a braille dot is raised.
const dotThreshold = 40

// renderBraille draws 2x4 dots per cell, each dot lit when its pixel box is
// brighter than dotThreshold. In colour modes the cell takes the average
// colour of its lit dots.
func (r *Renderer) renderBraille(img *image.RGBA, outW, outH int) {
	dotCols, dotRows := outW*2, outH*4
	var last string

	for row := range outH {
		for col := range outW {
			var pattern uint
			var sr, sg, sb, lit int
			for dx := range 2 {
				for dy := range 4 {
					pr, pg, pb := boxAverage(img, col*2+dx, row*4+dy, dotCols, dotRows)
					if luminance(pr, pg, pb) <= dotThreshold {
						continue
					}
					pattern |= 1 << brailleBits[dx][dy]
					sr, sg, sb = sr+int(pr), sg+int(pg), sb+int(pb)
					lit++
				}
			}
			if r.mode != ColorOff && lit > 0 {
				fg := colorSeq(r.mode, true, uint8(sr/lit), uint8(sg/lit), uint8(sb/lit))
				if fg != last {
					r.sb.WriteString(fg)
					last = fg
				}
			}
			r.sb.WriteRune(rune(0x2800 + pattern))
		}
		if r.mode != ColorOff {
			r.sb.WriteString(ansiReset)
			last = ""
		}
		if row < outH-1 {
			r.sb.WriteByte('\n')
		}
	}
}
