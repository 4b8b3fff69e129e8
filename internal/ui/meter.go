package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/wavescope/internal/audio"
)

const (
	meterFloorDB  = -40.0
	meterPeakHold = 0.02
)

var (
	meterLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3CE074"))
	meterMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0C648"))
	meterHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#F26056"))
	meterPeak = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFCD2"))
)

// levelMeter is an RMS level bar whose needle follows the signal on a
// critically damped spring, with a decaying peak marker.
type levelMeter struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	peak   float64
	frame  []byte
}

func newLevelMeter(fps int) *levelMeter {
	return &levelMeter{spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0)}
}

// rmsToLevel maps an RMS amplitude to 0..1 on a dB scale above meterFloorDB.
func rmsToLevel(rms float64) float64 {
	if rms < 1e-6 {
		return 0
	}
	db := 20 * math.Log10(rms)
	if db < meterFloorDB {
		return 0
	}
	return min((db-meterFloorDB)/-meterFloorDB, 1)
}

// frameRMS treats the bytes as time-domain samples centered at 128.
func frameRMS(frame []byte) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, b := range frame {
		v := (float64(b) - 128) / 128
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// Update moves the needle one frame toward the level of a's latest samples,
// or toward zero when the signal is not live.
func (m *levelMeter) Update(a *audio.Analyser, live bool) {
	target := 0.0
	if live {
		if n := a.FFTSize(); len(m.frame) != n {
			m.frame = make([]byte, n)
		}
		a.TimeDomainFrame(m.frame)
		target = rmsToLevel(frameRMS(m.frame))
	}

	m.pos, m.vel = m.spring.Update(m.pos, m.vel, target)
	m.pos = min(max(m.pos, 0), 1)

	if m.pos > m.peak {
		m.peak = m.pos
	} else {
		m.peak = max(m.peak-meterPeakHold, 0)
	}
}

// Level returns the needle position in 0..1.
func (m *levelMeter) Level() float64 {
	return m.pos
}

func (m *levelMeter) View(width int) string {
	width = max(width, 4)
	filled := int(m.pos * float64(width))
	peakPos := min(int(m.peak*float64(width)), width-1)

	var sb strings.Builder
	for i := range width {
		var style lipgloss.Style
		switch {
		case i >= filled && i == peakPos && peakPos > 0:
			sb.WriteString(meterPeak.Render("│"))
			continue
		case i < width*6/10:
			style = meterLow
		case i < width*8/10:
			style = meterMid
		default:
			style = meterHigh
		}
		if i < filled {
			sb.WriteString(style.Render("█"))
		} else {
			sb.WriteString(helpStyle.Render("─"))
		}
	}
	return sb.String()
}
