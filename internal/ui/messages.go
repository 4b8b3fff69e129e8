package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/wavescope/internal/player"
)

type tickMsg time.Time
type frameMsg time.Time
type playbackEndedMsg struct {
	player *player.Player
}
type trackOpenedMsg struct {
	player   *player.Player
	metadata player.Metadata
	index    int
	err      error
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
