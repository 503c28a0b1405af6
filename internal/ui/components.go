package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const (
	statsWidth  = 36 // including border and padding
	historySize = 96
	plotHeight  = 6
)

func renderMeter(value, total float64, width int) string {
	width = max(width, 4)
	var ratio float64
	if total > 0 {
		ratio = min(max(value/total, 0), 1)
	}
	filled := int(ratio * float64(width))
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

func renderVolume(vol float64, muted bool) string {
	if muted {
		return "muted"
	}
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

func formatUptime(d time.Duration) string {
	total := int(max(d, 0).Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// history keeps the most recent samples for the stats plot.
type history []float64

func (h history) push(v float64) history {
	h = append(h, v)
	if len(h) > historySize {
		h = h[len(h)-historySize:]
	}
	return h
}

type statsView struct {
	areaRatio  float64
	perimRatio float64
	contacts   int
	particles  int
	speed      float64
	colors     string
	frames     uint64
	uptime     time.Duration
	history    history
	height     int
}

func statRow(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func renderStats(s statsView) string {
	inner := statsWidth - 4
	rows := []string{
		headerStyle.Render("blob"),
		statRow("area", fmt.Sprintf("%.4f", s.areaRatio)),
		statRow("perim", fmt.Sprintf("%.4f", s.perimRatio)),
		statRow("contacts", fmt.Sprintf("%d/%d", s.contacts, s.particles)),
		statRow("", renderMeter(float64(s.contacts), float64(s.particles), inner-9)),
		statRow("speed", fmt.Sprintf("%.2f u/s", s.speed)),
		statRow("frames", fmt.Sprintf("%d", s.frames)),
		statRow("uptime", formatUptime(s.uptime)),
		statRow("colour", s.colors),
	}
	if len(s.history) > 1 {
		plot := asciigraph.Plot(s.history,
			asciigraph.Height(plotHeight),
			asciigraph.Width(inner-10),
			asciigraph.Precision(3),
			asciigraph.Caption("area / target"),
		)
		rows = append(rows, "", plotStyle.Render(plot))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return paneStyle.Width(statsWidth - 2).Height(max(s.height-2, 1)).Render(body)
}
