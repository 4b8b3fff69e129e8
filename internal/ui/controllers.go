package ui

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/olivier-w/wavescope/internal/audio"
	"github.com/olivier-w/wavescope/internal/chart"
	"github.com/olivier-w/wavescope/internal/surface"
)

// logScaleSpan is roughly the number of note units spanned by the audible
// octaves on a log axis; ScaleX = logScaleSpan / bins fits them into one pane.
const logScaleSpan = 180

var (
	shadowBarColor  = color.RGBA{R: 128, G: 128, B: 128, A: 0xff}
	shadowWaveColor = color.RGBA{G: 100, A: 0xff}

	errGridLines   = errors.New("draw lines must be at least 1")
	errGridSamples = errors.New("draw samples must be at least draw lines")
)

// gridSize is the waveform grid edited from the settings panel.
type gridSize struct {
	lines, samples int
}

func (g *gridSize) DrawLines() int   { return g.lines }
func (g *gridSize) DrawSamples() int { return g.samples }

// Scope owns the two panes: the waveform and frequency bar charts, their
// braille surfaces, and the shadow charts that trace the unfiltered signal
// while the filter is active. Like the charts it drives, it belongs to the
// bubbletea Update goroutine.
type Scope struct {
	graph *audio.Graph
	loop  *chart.FrameLoop
	hub   *chart.PointerHub
	grid  *gridSize

	waveSurface *surface.Braille
	barSurface  *surface.Braille

	wave       *chart.Waveform
	bars       *chart.FrequencyBars
	shadowWave *chart.Waveform
	shadowBars *chart.FrequencyBars

	filtering bool
	logger    *slog.Logger
}

// NewScope builds inactive charts over graph's analysers.
func NewScope(graph *audio.Graph, lines, samples int, logger *slog.Logger) *Scope {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Scope{
		graph:       graph,
		loop:        chart.NewFrameLoop(),
		hub:         chart.NewPointerHub(),
		grid:        &gridSize{lines: lines, samples: samples},
		waveSurface: surface.NewBraille(1, 1),
		barSurface:  surface.NewBraille(1, 1),
		logger:      logger,
	}

	s.wave = chart.NewWaveform(s.loop, graph.Analyser(), s.waveSurface, s.grid)
	s.bars = chart.NewFrequencyBars(s.loop, graph.Analyser(), s.barSurface, s.hub)

	s.shadowWave = chart.NewWaveform(s.loop, graph.Original(), s.waveSurface, s.grid)
	s.shadowWave.SetOptions(chart.WaveformPatch{LineStyle: chart.Opt(chart.FixedStyle(shadowWaveColor))})
	s.shadowBars = chart.NewFrequencyBars(s.loop, graph.Original(), s.barSurface, s.hub)
	s.shadowBars.SetOptions(chart.FrequencyPatch{BarStyle: chart.Opt(chart.FixedStyle(shadowBarColor))})
	return s
}

// Resize sets the pane sizes in terminal cells and recomputes chart geometry.
func (s *Scope) Resize(cols, waveRows, barRows int) {
	s.waveSurface.Resize(cols, waveRows)
	s.barSurface.Resize(cols, barRows)
	s.wave.Reset()
	s.bars.Reset()
}

// Fire draws one frame of every active chart.
func (s *Scope) Fire() int {
	return s.loop.Fire()
}

// Active reports whether the charts are running.
func (s *Scope) Active() bool {
	return s.wave.IsActive()
}

// Start starts both main charts and, while filtering, their shadows.
func (s *Scope) Start() {
	s.wave.Start()
	s.bars.Start()
}

// Stop stops every chart.
func (s *Scope) Stop() {
	s.wave.Stop()
	s.bars.Stop()
}

// WaveView renders the waveform pane.
func (s *Scope) WaveView() string { return s.waveSurface.String() }

// BarsView renders the spectrum pane.
func (s *Scope) BarsView() string { return s.barSurface.String() }

// Pointer returns the hub that pans the spectrum.
func (s *Scope) Pointer() *chart.PointerHub { return s.hub }

// FFTSize returns the analysis size shared by both analysers.
func (s *Scope) FFTSize() int {
	return s.graph.Analyser().FFTSize()
}

// SetFFTSize rounds requested to a valid size relative to the current one,
// resizes both analysers and resets the charts. It returns the size applied.
func (s *Scope) SetFFTSize(requested int) (int, error) {
	n := audio.RoundFFTSize(s.FFTSize(), requested)
	if err := s.graph.SetFFTSize(n); err != nil {
		return s.FFTSize(), err
	}
	s.wave.Reset()
	s.bars.Reset()
	return n, nil
}

// StepFFTSize moves the FFT size one power of two up (dir > 0) or down.
func (s *Scope) StepFFTSize(dir int) (int, error) {
	cur := s.FFTSize()
	if dir > 0 {
		return s.SetFFTSize(cur + 1)
	}
	return s.SetFFTSize(cur - 1)
}

// Grid returns the waveform grid.
func (s *Scope) Grid() (lines, samples int) {
	return s.grid.lines, s.grid.samples
}

// SetGrid changes the waveform grid and resets the waveform charts.
func (s *Scope) SetGrid(lines, samples int) error {
	if lines < 1 {
		return fmt.Errorf("%w: %d", errGridLines, lines)
	}
	if samples < lines {
		return fmt.Errorf("%w: %d < %d", errGridSamples, samples, lines)
	}
	s.grid.lines, s.grid.samples = lines, samples
	s.wave.Reset()
	return nil
}

// FrequencyOptions returns the spectrum chart options.
func (s *Scope) FrequencyOptions() chart.FrequencyOptions {
	return s.bars.Options()
}

// SetLogScale switches the frequency axis. The log axis turns on the note
// overlay and zooms out so the whole spectrum fits the pane.
func (s *Scope) SetLogScale(on bool) {
	scaleX := 1.0
	if on {
		scaleX = logScaleSpan / float64(s.graph.Analyser().FrameResolution())
	}
	s.bars.SetOptions(chart.FrequencyPatch{
		LogScale:           chart.Opt(on),
		DrawChromaticScale: chart.Opt(on),
		ScaleX:             chart.Opt(scaleX),
	})
}

// ZoomIn shows twice the detail.
func (s *Scope) ZoomIn() {
	s.bars.UpdateOptions(func(o chart.FrequencyOptions) chart.FrequencyPatch {
		return chart.FrequencyPatch{ScaleX: chart.Opt(o.ScaleX / 2)}
	})
}

// ZoomOut shows half the detail.
func (s *Scope) ZoomOut() {
	s.bars.UpdateOptions(func(o chart.FrequencyOptions) chart.FrequencyPatch {
		return chart.FrequencyPatch{ScaleX: chart.Opt(o.ScaleX * 2)}
	})
}

func (s *Scope) ZoomReset() {
	s.bars.SetOptions(chart.FrequencyPatch{ScaleX: chart.Opt(1.0)})
}

func (s *Scope) ToggleSolfege() {
	s.bars.UpdateOptions(func(o chart.FrequencyOptions) chart.FrequencyPatch {
		return chart.FrequencyPatch{UseSolfege: chart.Opt(!o.UseSolfege)}
	})
}

// ToggleLabels flips the frequency labels. While filtering they stay hidden
// on the main chart so they do not cover the shadow's.
func (s *Scope) ToggleLabels() {
	if s.filtering {
		s.shadowBars.UpdateOptions(func(o chart.FrequencyOptions) chart.FrequencyPatch {
			return chart.FrequencyPatch{DrawLabels: chart.Opt(!o.DrawLabels)}
		})
		return
	}
	s.bars.UpdateOptions(func(o chart.FrequencyOptions) chart.FrequencyPatch {
		return chart.FrequencyPatch{DrawLabels: chart.Opt(!o.DrawLabels)}
	})
}

// Filtering reports whether the filter and its shadow charts are active.
func (s *Scope) Filtering() bool {
	return s.filtering
}

// SelectFilter sets the filter type, or removes the filter when typ is
// empty. Turning the filter on puts it in the signal path and links the
// shadow charts behind the main ones; turning it off reverses both.
func (s *Scope) SelectFilter(typ audio.FilterType) error {
	if typ == "" {
		s.filterOff()
		return nil
	}

	p := s.graph.FilterParams()
	p.Type = typ
	if err := s.graph.SetFilterParams(p); err != nil {
		return err
	}
	if !s.filtering {
		s.filterOn()
	}
	return nil
}

func (s *Scope) filterOn() {
	s.graph.SetFilterActive(true)

	s.wave.Link(s.shadowWave)
	s.bars.Link(s.shadowBars)
	s.shadowBars.SetOptions(chart.FrequencyPatch{DrawLabels: chart.Opt(s.bars.Options().DrawLabels)})

	s.wave.SetOptions(chart.WaveformPatch{ClearCanvas: chart.Opt(false)})
	s.bars.SetOptions(chart.FrequencyPatch{
		ClearCanvas: chart.Opt(false),
		DrawLabels:  chart.Opt(false),
	})

	s.filtering = true
	s.logger.Debug("shadow charts linked")
}

func (s *Scope) filterOff() {
	if !s.filtering {
		return
	}
	s.graph.SetFilterActive(false)

	s.wave.Unlink(s.shadowWave)
	s.bars.Unlink(s.shadowBars)

	s.wave.SetOptions(chart.WaveformPatch{ClearCanvas: chart.Opt(true)})
	s.bars.SetOptions(chart.FrequencyPatch{
		ClearCanvas: chart.Opt(true),
		DrawLabels:  chart.Opt(s.shadowBars.Options().DrawLabels),
	})

	s.filtering = false
	s.logger.Debug("shadow charts unlinked")
}
