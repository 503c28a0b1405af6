package video

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Brightness ramp from darkest to brightest for colourless terminals.
const asciiRamp = " .:-=+*#%@"

// ColorMode describes how colours are written to the terminal.
type ColorMode uint8

const (
	ColorOff     ColorMode = iota // NO_COLOR or dumb terminal
	ColorANSI16                   // basic 16-colour
	ColorANSI256                  // 256-colour cube
	ColorTrue                     // 24-bit
)

func (m ColorMode) String() string {
	switch m {
	case ColorOff:
		return "mono"
	case ColorANSI16:
		return "ansi16"
	case ColorANSI256:
		return "ansi256"
	case ColorTrue:
		return "truecolor"
	}
	return "unknown"
}

var (
	detectOnce sync.Once
	termColor  ColorMode
)

// DetectColorMode checks terminal capabilities once per process.
func DetectColorMode() ColorMode {
	detectOnce.Do(func() {
		termColor = colorModeFromEnv(os.LookupEnv)
	})
	return termColor
}

func colorModeFromEnv(lookup func(string) (string, bool)) ColorMode {
	if _, ok := lookup("NO_COLOR"); ok {
		return ColorOff
	}
	term, _ := lookup("TERM")
	ct, _ := lookup("COLORTERM")
	term, ct = strings.ToLower(term), strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "truecolor"), strings.Contains(ct, "24bit"):
		return ColorTrue
	case strings.Contains(term, "256color"):
		return ColorANSI256
	case term == "dumb":
		return ColorOff
	case term == "" && runtime.GOOS == "windows":
		return ColorANSI16
	case term == "":
		return ColorOff
	default:
		return ColorANSI16
	}
}

// brightnessChar maps a 0-255 luminance to an ASCII character.
func brightnessChar(lum uint8) byte {
	idx := int(lum) * (len(asciiRamp) - 1) / 255
	return asciiRamp[idx]
}

// colorSeq returns the escape selecting r,g,b as foreground (fg) or
// background. Disabled colour yields "".
func colorSeq(mode ColorMode, fg bool, r, g, b uint8) string {
	switch mode {
	case ColorTrue:
		if fg {
			return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
		}
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
	case ColorANSI256:
		idx := 16 + 36*(int(r)*5/255) + 6*(int(g)*5/255) + int(b)*5/255
		if fg {
			return fmt.Sprintf("\x1b[38;5;%dm", idx)
		}
		return fmt.Sprintf("\x1b[48;5;%dm", idx)
	case ColorANSI16:
		base := 30
		if !fg {
			base = 40
		}
		best := ansi16Index(r, g, b)
		if best < 8 {
			return fmt.Sprintf("\x1b[%dm", base+best)
		}
		return fmt.Sprintf("\x1b[%dm", base+60+best-8)
	default:
		return ""
	}
}

const ansiReset = "\x1b[0m"

// ansi16Index returns the nearest entry of ansi16Palette.
func ansi16Index(r, g, b uint8) int {
	best := 0
	bestDist := 1<<31 - 1
	for i, c := range ansi16Palette {
		dr := int(r) - int(c[0])
		dg := int(g) - int(c[1])
		db := int(b) - int(c[2])
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

var ansi16Palette = [16][3]uint8{
	{0, 0, 0},       // black
	{205, 49, 49},   // red
	{13, 188, 121},  // green
	{229, 229, 16},  // yellow
	{36, 114, 200},  // blue
	{188, 63, 188},  // magenta
	{17, 168, 205},  // cyan
	{229, 229, 229}, // white
	{102, 102, 102}, // bright black
	{241, 76, 76},   // bright red
	{35, 209, 139},  // bright green
	{245, 245, 67},  // bright yellow
	{59, 142, 234},  // bright blue
	{214, 112, 214}, // bright magenta
	{41, 184, 219},  // bright cyan
	{255, 255, 255}, // bright white
}
