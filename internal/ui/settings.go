package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/olivier-w/wavescope/internal/audio"
	"github.com/olivier-w/wavescope/internal/util"
)

// filterFrequencyStep is a third of an octave.
var filterFrequencyStep = math.Cbrt(2)

type setting struct {
	name    string
	value   func() string
	adjust  func(dir int) error
	visible func() bool
}

func (s setting) shown() bool {
	return s.visible == nil || s.visible()
}

// Settings is the adjustable parameter panel. One row has focus; adjusting
// moves its value one step.
type Settings struct {
	items []setting
	focus int
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func stepClamped(v, step, lo, hi float64, dir int) float64 {
	return round2(min(max(v+step*float64(dir), lo), hi))
}

func newSettings(scope *Scope, graph *audio.Graph) *Settings {
	filterParam := func(p audio.FilterParam) func() bool {
		return func() bool {
			return scope.Filtering() && graph.FilterParams().Type.Visible(p)
		}
	}
	updateFilter := func(fn func(p *audio.FilterParams)) error {
		p := graph.FilterParams()
		fn(&p)
		return graph.SetFilterParams(p)
	}
	gain := func(ch audio.Channel) setting {
		label := "gain L"
		if ch == audio.Right {
			label = "gain R"
		}
		return setting{
			name:  label,
			value: func() string { return fmt.Sprintf("%.2f", graph.Gain(ch)) },
			adjust: func(dir int) error {
				return graph.SetGain(ch, stepClamped(graph.Gain(ch), 0.1, 0, audio.MaxGain, dir))
			},
		}
	}

	return &Settings{items: []setting{
		{
			name:  "fft size",
			value: func() string { return fmt.Sprint(scope.FFTSize()) },
			adjust: func(dir int) error {
				_, err := scope.StepFFTSize(dir)
				return err
			},
		},
		{
			name: "lines",
			value: func() string {
				lines, _ := scope.Grid()
				return fmt.Sprint(lines)
			},
			adjust: func(dir int) error {
				lines, samples := scope.Grid()
				return scope.SetGrid(lines+dir, max(samples, lines+dir))
			},
		},
		{
			name: "samples",
			value: func() string {
				_, samples := scope.Grid()
				return fmt.Sprint(samples)
			},
			adjust: func(dir int) error {
				lines, samples := scope.Grid()
				return scope.SetGrid(lines, samples+dir)
			},
		},
		{
			name:  "smoothing",
			value: func() string { return fmt.Sprintf("%.2f", graph.Analyser().Smoothing()) },
			adjust: func(dir int) error {
				return graph.SetSmoothing(stepClamped(graph.Analyser().Smoothing(), 0.05, 0, 0.95, dir))
			},
		},
		{
			name: "filter",
			value: func() string {
				if !scope.Filtering() {
					return "off"
				}
				return string(graph.FilterParams().Type)
			},
			adjust: func(dir int) error {
				return scope.SelectFilter(cycleFilter(scope.Filtering(), graph.FilterParams().Type, dir))
			},
		},
		{
			name:    "frequency",
			visible: filterParam(audio.ParamFrequency),
			value:   func() string { return util.FormatFrequency(graph.FilterParams().Frequency) },
			adjust: func(dir int) error {
				nyquist := graph.SampleRate() / 2
				return updateFilter(func(p *audio.FilterParams) {
					f := p.Frequency * math.Pow(filterFrequencyStep, float64(dir))
					p.Frequency = math.Round(min(max(f, 10), nyquist))
				})
			},
		},
		{
			name:    "detune",
			visible: filterParam(audio.ParamDetune),
			value:   func() string { return fmt.Sprintf("%+.0f ct", graph.FilterParams().Detune) },
			adjust: func(dir int) error {
				return updateFilter(func(p *audio.FilterParams) {
					p.Detune = stepClamped(p.Detune, 100, -1200, 1200, dir)
				})
			},
		},
		{
			name:    "Q",
			visible: filterParam(audio.ParamQ),
			value:   func() string { return fmt.Sprintf("%.1f", graph.FilterParams().Q) },
			adjust: func(dir int) error {
				return updateFilter(func(p *audio.FilterParams) {
					p.Q = stepClamped(p.Q, 0.5, -20, 30, dir)
				})
			},
		},
		{
			name:    "filter gain",
			visible: filterParam(audio.ParamGain),
			value:   func() string { return fmt.Sprintf("%+.0f dB", graph.FilterParams().Gain) },
			adjust: func(dir int) error {
				return updateFilter(func(p *audio.FilterParams) {
					p.Gain = stepClamped(p.Gain, 1, -40, 40, dir)
				})
			},
		},
		gain(audio.Left),
		gain(audio.Right),
		{
			name:  "pan",
			value: func() string { return fmt.Sprintf("%+.1f", graph.Pan()) },
			adjust: func(dir int) error {
				return graph.SetPan(stepClamped(graph.Pan(), 0.1, -1, 1, dir))
			},
		},
	}}
}

// cycleFilter returns the filter choice dir steps from the current one,
// where "" (off) precedes the first type.
func cycleFilter(filtering bool, current audio.FilterType, dir int) audio.FilterType {
	choices := append([]audio.FilterType{""}, audio.FilterTypes...)
	idx := 0
	if filtering {
		for i, t := range choices {
			if t == current {
				idx = i
			}
		}
	}
	n := len(choices)
	return choices[((idx+dir)%n+n)%n]
}

// Focused returns the name of the focused row.
func (s *Settings) Focused() string {
	s.normalize()
	return s.items[s.focus].name
}

// normalize moves focus off a row that has been hidden.
func (s *Settings) normalize() {
	if !s.items[s.focus].shown() {
		s.Move(-1)
	}
}

// Move shifts focus to the next (dir > 0) or previous visible row, wrapping.
func (s *Settings) Move(dir int) {
	n := len(s.items)
	step := 1
	if dir < 0 {
		step = -1
	}
	for i := 1; i <= n; i++ {
		next := ((s.focus+step*i)%n + n) % n
		if s.items[next].shown() {
			s.focus = next
			return
		}
	}
}

// Adjust steps the focused value.
func (s *Settings) Adjust(dir int) error {
	s.normalize()
	return s.items[s.focus].adjust(dir)
}

// View renders the visible rows, the focused one highlighted.
func (s *Settings) View(width int) string {
	s.normalize()
	nameWidth := 0
	for _, it := range s.items {
		nameWidth = max(nameWidth, len(it.name))
	}

	var rows []string
	for i, it := range s.items {
		if !it.shown() {
			continue
		}
		row := fmt.Sprintf("%-*s %s", nameWidth, it.name, it.value())
		if len(row) > width-2 {
			row = row[:max(width-2, 0)]
		}
		if i == s.focus {
			rows = append(rows, focusStyle.Render("› "+row))
		} else {
			rows = append(rows, settingStyle.Render("  "+row))
		}
	}
	return strings.Join(rows, "\n")
}
