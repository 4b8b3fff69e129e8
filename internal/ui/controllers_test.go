package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/wavescope/internal/audio"
	"github.com/olivier-w/wavescope/internal/logger"
)

func newTestScope(t *testing.T) (*Scope, *audio.Graph) {
	t.Helper()
	graph := audio.NewGraph(44100, logger.NewTestLogger())
	s := NewScope(graph, 4, 8, logger.NewTestLogger())
	s.Resize(40, 6, 6)
	return s, graph
}

func TestScopeLifecycle(t *testing.T) {
	s, _ := newTestScope(t)
	require.False(t, s.Active())

	s.Start()
	assert.True(t, s.Active())
	assert.True(t, s.bars.IsActive())
	assert.Equal(t, 1, s.Pointer().Len())
	assert.Equal(t, 2, s.Fire())

	s.Stop()
	assert.False(t, s.Active())
	assert.False(t, s.bars.IsActive())
	assert.Equal(t, 0, s.Pointer().Len())
	assert.Equal(t, 0, s.Fire())
}

func TestScopeFilterLinksShadows(t *testing.T) {
	s, graph := newTestScope(t)
	s.Start()

	require.NoError(t, s.SelectFilter(audio.Highpass))
	assert.True(t, s.Filtering())
	assert.True(t, graph.FilterActive())
	assert.Equal(t, audio.Highpass, graph.FilterParams().Type)

	assert.Len(t, s.wave.Linked(), 1)
	assert.Len(t, s.bars.Linked(), 1)
	assert.True(t, s.shadowWave.IsActive())
	assert.True(t, s.shadowBars.IsActive())
	assert.Equal(t, 2, s.Pointer().Len())

	assert.False(t, s.wave.Options().ClearCanvas)
	assert.False(t, s.bars.Options().ClearCanvas)
	assert.False(t, s.bars.Options().DrawLabels)
	assert.True(t, s.shadowBars.Options().DrawLabels)
	assert.False(t, s.shadowBars.Options().BarStyle.IsDefault())
	assert.False(t, s.shadowWave.Options().LineStyle.IsDefault())

	// Shadows draw first, one frame each.
	assert.Equal(t, 4, s.Fire())
}

func TestScopeSwitchingFilterTypeKeepsOneLink(t *testing.T) {
	s, graph := newTestScope(t)
	require.NoError(t, s.SelectFilter(audio.Lowpass))
	require.NoError(t, s.SelectFilter(audio.Notch))

	assert.Len(t, s.wave.Linked(), 1)
	assert.Len(t, s.bars.Linked(), 1)
	assert.Equal(t, audio.Notch, graph.FilterParams().Type)
}

func TestScopeFilterOffRestoresCharts(t *testing.T) {
	s, graph := newTestScope(t)
	s.Start()
	require.NoError(t, s.SelectFilter(audio.Lowpass))
	require.NoError(t, s.SelectFilter(""))

	assert.False(t, s.Filtering())
	assert.False(t, graph.FilterActive())
	assert.Empty(t, s.wave.Linked())
	assert.Empty(t, s.bars.Linked())
	assert.False(t, s.shadowWave.IsActive())
	assert.False(t, s.shadowBars.IsActive())
	assert.True(t, s.wave.Options().ClearCanvas)
	assert.True(t, s.bars.Options().ClearCanvas)
	assert.True(t, s.bars.Options().DrawLabels)
	assert.True(t, s.Active())

	require.NoError(t, s.SelectFilter(""))
	assert.False(t, s.Filtering())
}

func TestScopeFilterOffKeepsLabelChoice(t *testing.T) {
	s, _ := newTestScope(t)
	require.NoError(t, s.SelectFilter(audio.Lowpass))
	s.ToggleLabels()
	assert.False(t, s.shadowBars.Options().DrawLabels)
	assert.False(t, s.bars.Options().DrawLabels)

	require.NoError(t, s.SelectFilter(""))
	assert.False(t, s.bars.Options().DrawLabels)

	s.ToggleLabels()
	assert.True(t, s.bars.Options().DrawLabels)
}

func TestScopeLogScale(t *testing.T) {
	s, _ := newTestScope(t)
	require.NoError(t, s.SelectFilter(audio.Lowpass))

	s.SetLogScale(true)
	opts := s.FrequencyOptions()
	assert.True(t, opts.LogScale)
	assert.True(t, opts.DrawChromaticScale)
	assert.InDelta(t, 180.0/1024, opts.ScaleX, 1e-12)
	assert.InDelta(t, 180.0/1024, s.shadowBars.Options().ScaleX, 1e-12)
	assert.True(t, s.shadowBars.Options().LogScale)

	s.SetLogScale(false)
	opts = s.FrequencyOptions()
	assert.False(t, opts.LogScale)
	assert.False(t, opts.DrawChromaticScale)
	assert.Equal(t, 1.0, opts.ScaleX)
}

func TestScopeZoom(t *testing.T) {
	s, _ := newTestScope(t)
	require.NoError(t, s.SelectFilter(audio.Lowpass))

	s.ZoomIn()
	assert.Equal(t, 0.5, s.FrequencyOptions().ScaleX)
	assert.Equal(t, 0.5, s.shadowBars.Options().ScaleX)

	s.ZoomOut()
	s.ZoomOut()
	assert.Equal(t, 2.0, s.FrequencyOptions().ScaleX)

	s.ZoomReset()
	assert.Equal(t, 1.0, s.FrequencyOptions().ScaleX)
	assert.Equal(t, 1.0, s.shadowBars.Options().ScaleX)
}

func TestScopeSolfege(t *testing.T) {
	s, _ := newTestScope(t)
	s.ToggleSolfege()
	assert.True(t, s.FrequencyOptions().UseSolfege)
	s.ToggleSolfege()
	assert.False(t, s.FrequencyOptions().UseSolfege)
}

func TestScopeFFTSizeRounds(t *testing.T) {
	s, graph := newTestScope(t)

	n, err := s.SetFFTSize(3000)
	require.NoError(t, err)
	assert.Equal(t, 4096, n)
	assert.Equal(t, 4096, graph.Original().FFTSize())

	n, err = s.SetFFTSize(3000)
	require.NoError(t, err)
	assert.Equal(t, 2048, n)

	n, err = s.StepFFTSize(-1)
	require.NoError(t, err)
	assert.Equal(t, 1024, n)

	n, err = s.StepFFTSize(1)
	require.NoError(t, err)
	assert.Equal(t, 2048, n)

	n, err = s.SetFFTSize(1 << 20)
	require.NoError(t, err)
	assert.Equal(t, audio.MaxFFTSize, n)
}

func TestScopeGrid(t *testing.T) {
	s, _ := newTestScope(t)
	require.NoError(t, s.SetGrid(2, 6))
	lines, samples := s.Grid()
	assert.Equal(t, 2, lines)
	assert.Equal(t, 6, samples)

	require.ErrorIs(t, s.SetGrid(0, 6), errGridLines)
	require.ErrorIs(t, s.SetGrid(4, 3), errGridSamples)
	lines, samples = s.Grid()
	assert.Equal(t, 2, lines)
	assert.Equal(t, 6, samples)
}

func TestScopeViews(t *testing.T) {
	s, _ := newTestScope(t)
	s.Start()
	s.Fire()

	assert.NotEmpty(t, s.WaveView())
	assert.NotEmpty(t, s.BarsView())
}
