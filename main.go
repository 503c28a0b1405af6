package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/squishy/internal/audio"
	"github.com/olivier-w/squishy/internal/config"
	"github.com/olivier-w/squishy/internal/record"
	"github.com/olivier-w/squishy/internal/ui"
	"github.com/olivier-w/squishy/internal/video"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		config.Usage(os.Stdout)
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		config.Usage(os.Stderr)
		os.Exit(1)
	}

	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "squishy")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	log.Printf("starting: %s", cfg.Summary())

	opts := ui.Options{
		Config:   cfg,
		Audio:    openAudio(cfg),
		Renderer: video.NewRenderer(),
	}
	if cfg.Record != "" {
		opts.Recorder = record.New(cfg.RecordFrames, cfg.FPS)
	}

	program := tea.NewProgram(ui.New(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := program.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(ui.Model); ok {
		if err := m.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// openAudio starts sound output. Failures are logged and leave the
// simulation silent.
func openAudio(cfg config.Config) *audio.Engine {
	if cfg.NoAudio {
		return nil
	}
	music, err := resolveMusic(cfg.Music)
	if err != nil {
		log.Printf("soundtrack: %v", err)
		music = ""
	}
	if music == "" && !cfg.Cues {
		return nil
	}
	e, err := audio.Open(audio.Options{Music: music, Volume: cfg.Volume, Cues: cfg.Cues})
	if err != nil {
		log.Printf("audio disabled: %v", err)
		return nil
	}
	if t := e.Title(); t != "" {
		log.Printf("soundtrack: %s", t)
	}
	return e
}

// resolveMusic accepts a track or a directory; for a directory the first
// supported file by case-insensitive name is used.
func resolveMusic(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		if !audio.Supported(path) {
			return "", fmt.Errorf("unsupported format %s (supported: .mp3, .wav, .flac, .ogg)", filepath.Ext(path))
		}
		return path, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && audio.Supported(e.Name()) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no supported audio in %s", path)
	}
	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})
	return files[0], nil
}
