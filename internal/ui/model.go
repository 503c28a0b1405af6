package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivier-w/squishy/internal/asset"
	"github.com/olivier-w/squishy/internal/audio"
	"github.com/olivier-w/squishy/internal/blob"
	"github.com/olivier-w/squishy/internal/config"
	"github.com/olivier-w/squishy/internal/frame"
	"github.com/olivier-w/squishy/internal/record"
	"github.com/olivier-w/squishy/internal/scene"
	"github.com/olivier-w/squishy/internal/video"
)

// Rows reserved below the raster for the status and help lines.
const chromeRows = 2

// Texture edge length for the generated defaults.
const textureSize = 256

// screen is the frame.Renderer the driver calls: it draws the scene,
// captures it when recording and converts it to terminal cells.
type screen struct {
	scene *scene.Scene
	video *video.Renderer
	rec   *record.Recorder
	cols  int
	rows  int
	out   string
}

func (s *screen) Render() {
	if s.cols <= 0 || s.rows <= 0 {
		return
	}
	s.scene.Render()
	img := s.scene.Image()
	if s.rec != nil {
		s.rec.Add(img)
	}
	s.out = s.video.Render(img, s.cols, s.rows)
}

// Model is the Bubbletea model for the squishy TUI.
type Model struct {
	cfg    config.Config
	sim    *blob.Simulation
	driver *frame.Driver
	screen *screen
	audio  *audio.Engine
	rec    *record.Recorder

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	width     int
	height    int
	paused    bool
	gravity   bool
	showStats bool
	braille   bool
	loading   bool
	loadErr   string
	quitting  bool

	started  time.Time
	contacts int
	history  history
}

// Options carries the collaborators that main wires up. Audio and Recorder
// may be nil.
type Options struct {
	Config   config.Config
	Audio    *audio.Engine
	Recorder *record.Recorder
	Renderer *video.Renderer
}

// New builds the model. The raster is sized on the first WindowSizeMsg.
func New(opts Options) Model {
	cfg := opts.Config
	sim := blob.New(cfg.BlobParams(), r2.Box{Max: r2.Vec{X: 1, Y: 1}})
	renderer := opts.Renderer
	if renderer == nil {
		renderer = video.NewRenderer()
	}
	renderer.SetBraille(cfg.Braille)
	scr := &screen{
		scene: scene.New(sim, scene.Options{Scale: cfg.Scale, FPS: cfg.FPS, Stars: cfg.Stars}),
		video: renderer,
		rec:   opts.Recorder,
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	return Model{
		cfg:     cfg,
		sim:     sim,
		driver:  frame.NewDriver(sim, scr, cfg.SubSteps),
		screen:  scr,
		audio:   opts.Audio,
		rec:     opts.Recorder,
		keys:    newKeyMap(),
		help:    help.New(),
		spinner: s,
		gravity: cfg.Gravity != 0,
		braille: cfg.Braille,
		loading: true,
		started: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	earth := asset.Source{Path: m.cfg.Texture, Size: textureSize, Seed: m.cfg.Seed, Gen: asset.Earth}
	moon := asset.Source{Path: m.cfg.MoonTexture, Size: textureSize / 2, Seed: m.cfg.Seed, Gen: asset.Moon}
	return tea.Batch(
		frameCmd(m.cfg.FPS),
		loadTexturesCmd(earth, moon),
		m.spinner.Tick,
		tea.SetWindowTitle("squishy"),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.pointerAt(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout(true)
		return m, nil

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		m.advance()
		return m, frameCmd(m.cfg.FPS)

	case texturesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err.Error()
		}
		m.screen.scene.SetTextures(msg.earth, msg.moon)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		if m.audio != nil {
			m.audio.SetPaused(m.paused)
		}
		title := "squishy"
		if m.paused {
			title = "⏸ squishy"
		}
		return m, tea.SetWindowTitle(title)
	case key.Matches(msg, m.keys.Gravity):
		m.gravity = !m.gravity
		g := r2.Vec{}
		if m.gravity {
			g.Y = m.cfg.Gravity
		}
		m.sim.SetGravity(g)
	case key.Matches(msg, m.keys.Reset):
		m.sim.Reset(m.sim.Bounds())
		m.history = nil
	case key.Matches(msg, m.keys.Stats):
		m.showStats = !m.showStats
		m.layout(false)
	case key.Matches(msg, m.keys.Braille):
		m.braille = !m.braille
		m.screen.video.SetBraille(m.braille)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout(false)
	case m.audio == nil:
	case key.Matches(msg, m.keys.Mute):
		m.audio.ToggleMute()
	case key.Matches(msg, m.keys.VolUp):
		m.audio.AdjustVolume(0.05)
	case key.Matches(msg, m.keys.VolDown):
		m.audio.AdjustVolume(-0.05)
	}
	return m, nil
}

// layout sizes the raster to the space left by the chrome and stats pane.
// A window resize recreates the ring centred in the new viewport; toggling
// the pane only moves the walls.
func (m *Model) layout(relayout bool) {
	cols := m.width
	if m.showStats {
		cols -= statsWidth
	}
	rows := m.height - chromeRows
	if m.help.ShowAll {
		rows -= m.keys.fullHelpRows() - 1
	}
	cols, rows = max(cols, 1), max(rows, 1)
	m.screen.cols, m.screen.rows = cols, rows
	m.help.Width = m.width

	w, h := video.RasterSize(cols, rows, m.cfg.Supersample)
	m.screen.scene.Resize(w, h, m.cfg.Seed)
	bounds := r2.Box{Max: m.screen.scene.ToSim(r2.Vec{X: float64(w), Y: float64(h)})}
	if relayout {
		m.sim.Reset(bounds)
		m.history = nil
		log.Printf("layout %dx%d cells, %dx%d px, bounds %.1fx%.1f", cols, rows, w, h, bounds.Max.X, bounds.Max.Y)
		return
	}
	m.sim.SetBounds(bounds)
}

// pointerAt maps a terminal cell to the centre of its raster pixel box,
// then to simulation units.
func (m *Model) pointerAt(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionMotion, tea.MouseActionPress:
	default:
		return
	}
	if msg.Button >= tea.MouseButtonWheelUp && msg.Button <= tea.MouseButtonWheelRight {
		return
	}
	if msg.X < 0 || msg.Y < 0 || msg.X >= m.screen.cols || msg.Y >= m.screen.rows {
		m.sim.ClearPointer()
		return
	}
	ss := float64(m.cfg.Supersample)
	px := r2.Vec{X: (float64(msg.X) + 0.5) * ss, Y: (float64(msg.Y) + 0.5) * 2 * ss}
	m.sim.SetPointer(m.screen.scene.ToSim(px))
}

// advance runs one frame: stepping unless paused, then rendering.
func (m *Model) advance() {
	if m.width == 0 {
		return
	}
	if m.paused {
		m.screen.Render()
		return
	}
	m.driver.Frame()

	contacts := m.sim.Contacts()
	if contacts > 0 && m.contacts == 0 && m.audio != nil {
		m.audio.Squish()
	}
	m.contacts = contacts
	m.history = m.history.push(m.sim.Area() / m.sim.TargetArea())
}

func (m Model) statusLine() string {
	icon, text := "▶", "running"
	if m.paused {
		icon, text = "❚❚", "paused"
	}
	left := fmt.Sprintf("%s  %s", icon, text)
	if !m.gravity {
		left += "  zero-g"
	}
	if m.audio != nil {
		if t := m.audio.Title(); t != "" {
			left += "  ♪ " + t
		}
	}
	if m.rec != nil {
		left += fmt.Sprintf("  ● rec %d/%d", m.rec.Len(), m.cfg.RecordFrames)
	}
	switch {
	case m.loading:
		left += "  " + m.spinner.View() + " loading textures"
	case m.loadErr != "":
		left += "  " + errStyle.Render("texture: "+m.loadErr)
	}

	right := ""
	if m.audio != nil {
		right = renderVolume(m.audio.Volume(), m.audio.Muted())
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 2)
	return statusStyle.Render(" "+left) + strings.Repeat(" ", gap) + statusStyle.Render(right)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "\n  " + titleStyle.Render("squishy") + "\n"
	}

	view := m.screen.out
	if view == "" {
		view = strings.Repeat("\n", max(m.screen.rows-1, 0))
	}
	if m.showStats {
		view = lipgloss.JoinHorizontal(lipgloss.Top, view, renderStats(statsView{
			areaRatio:  m.sim.Area() / m.sim.TargetArea(),
			perimRatio: m.sim.Perimeter() / (m.sim.RestEdgeLength() * float64(m.sim.Len())),
			contacts:   m.sim.Contacts(),
			particles:  m.sim.Len(),
			speed:      m.sim.MeanSpeed(),
			colors:     m.screen.video.Mode().String(),
			frames:     m.driver.Frames(),
			uptime:     time.Since(m.started),
			history:    m.history,
			height:     m.screen.rows,
		}))
	}
	return view + "\n" + m.statusLine() + "\n " + m.help.View(m.keys)
}

// Close flushes the recording and stops audio. main calls it with the
// final model after the program exits.
func (m Model) Close() error {
	if m.audio != nil {
		m.audio.Close()
	}
	if m.rec == nil || m.rec.Len() == 0 {
		return nil
	}
	if err := m.rec.Save(m.cfg.Record); err != nil {
		return fmt.Errorf("saving recording: %w", err)
	}
	log.Printf("recording written to %s (%d frames)", m.cfg.Record, m.rec.Len())
	return nil
}
