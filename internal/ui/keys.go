package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Pause   key.Binding
	Gravity key.Binding
	Reset   key.Binding
	Stats   key.Binding
	Braille key.Binding
	Mute    key.Binding
	VolUp   key.Binding
	VolDown key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Pause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Gravity: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gravity")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Stats:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		Braille: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "braille")),
		Mute:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		VolUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "vol up")),
		VolDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "vol down")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Gravity, k.Reset, k.Stats, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Gravity, k.Reset},
		{k.Stats, k.Braille, k.Help, k.Quit},
		{k.Mute, k.VolUp, k.VolDown},
	}
}

func (k keyMap) fullHelpRows() int {
	rows := 1
	for _, col := range k.FullHelp() {
		rows = max(rows, len(col))
	}
	return rows
}

func isQuit(msg tea.KeyMsg) bool {
	return key.Matches(msg, newKeyMap().Quit)
}
