package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/olivier-w/wavescope/internal/chart"
)

// dotsPerCell is the horizontal braille resolution of one terminal cell.
const dotsPerCell = 2

// spectrumPointer turns mouse events over the spectrum pane into pointer
// events for the charts listening on hub.
type spectrumPointer struct {
	zones  *zone.Manager
	id     string
	hub    *chart.PointerHub
	inZone func(tea.MouseMsg) bool

	down  bool
	lastX int
}

func newSpectrumPointer(zones *zone.Manager, hub *chart.PointerHub) *spectrumPointer {
	p := &spectrumPointer{zones: zones, id: zones.NewPrefix() + "spectrum", hub: hub}
	p.inZone = func(msg tea.MouseMsg) bool {
		z := p.zones.Get(p.id)
		return z != nil && z.InBounds(msg)
	}
	return p
}

// Mark wraps the spectrum pane so the zone manager can locate it.
func (p *spectrumPointer) Mark(view string) string {
	return p.zones.Mark(p.id, view)
}

// Handle forwards msg and reports whether it was consumed. Presses and
// drags count only inside the pane; a release anywhere ends the drag.
func (p *spectrumPointer) Handle(msg tea.MouseMsg) bool {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !p.inZone(msg) {
			return false
		}
		p.down = true
		p.lastX = msg.X
		p.hub.Down()
		return true

	case tea.MouseActionMotion:
		if !p.down || !p.inZone(msg) {
			return false
		}
		dx := msg.X - p.lastX
		p.lastX = msg.X
		if dx != 0 {
			p.hub.Move(float64(dx * dotsPerCell))
		}
		return true

	case tea.MouseActionRelease:
		if !p.down {
			return false
		}
		p.down = false
		p.hub.Up()
		return true
	}
	return false
}
