package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

type keyMap struct {
	Pause       key.Binding
	SeekBack    key.Binding
	SeekForward key.Binding
	VolumeUp    key.Binding
	VolumeDown  key.Binding
	Tone        key.Binding
	Focus       key.Binding
	FocusBack   key.Binding
	Increase    key.Binding
	Decrease    key.Binding
	LogScale    key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	ZoomReset   key.Binding
	Solfege     key.Binding
	Labels      key.Binding
	Filter      key.Binding
	Repeat      key.Binding
	Next        key.Binding
	Prev        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Pause:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
	SeekBack:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "seek -5s")),
	SeekForward: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "seek +5s")),
	VolumeUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
	VolumeDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
	Tone:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tone")),
	Focus:       key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓/j", "next setting")),
	FocusBack:   key.NewBinding(key.WithKeys("up", "k", "shift+tab"), key.WithHelp("↑/k", "prev setting")),
	Increase:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "increase")),
	Decrease:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "decrease")),
	LogScale:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "log/linear")),
	ZoomIn:      key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "zoom in")),
	ZoomOut:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "zoom out")),
	ZoomReset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "zoom reset")),
	Solfege:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "solfege")),
	Labels:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "labels")),
	Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
	Repeat:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
	Next:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next track")),
	Prev:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev track")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Tone, k.Focus, k.Increase, k.Decrease, k.LogScale, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.SeekBack, k.SeekForward, k.VolumeUp, k.VolumeDown, k.Repeat},
		{k.Tone, k.Next, k.Prev, k.Focus, k.FocusBack, k.Increase, k.Decrease},
		{k.LogScale, k.ZoomIn, k.ZoomOut, k.ZoomReset, k.Solfege, k.Labels, k.Filter},
		{k.Help, k.Quit},
	}
}
