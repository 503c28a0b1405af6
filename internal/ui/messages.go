package ui

import (
	"image"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/squishy/internal/asset"
)

type frameMsg time.Time

type texturesLoadedMsg struct {
	earth *image.NRGBA
	moon  *image.NRGBA
	err   error
}

func frameCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(max(fps, 1)), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// loadTexturesCmd resolves both textures off the update loop. A file that
// fails to load falls back to its generated default so the blob still
// draws; the error is reported for the status line.
func loadTexturesCmd(earth, moon asset.Source) tea.Cmd {
	return func() tea.Msg {
		var msg texturesLoadedMsg
		resolve := func(src asset.Source, name string) *image.NRGBA {
			img, err := src.Resolve()
			if err == nil {
				log.Printf("%s texture ready (%dx%d)", name, img.Rect.Dx(), img.Rect.Dy())
				return img
			}
			log.Printf("%s texture: %v; using generated default", name, err)
			if msg.err == nil {
				msg.err = err
			}
			src.Path = ""
			img, _ = src.Resolve()
			return img
		}
		msg.earth = resolve(earth, "blob")
		msg.moon = resolve(moon, "moon")
		return msg
	}
}
