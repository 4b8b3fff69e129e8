package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/wavescope/internal/audio"
)

func focusOn(t *testing.T, s *Settings, name string) {
	t.Helper()
	for range s.items {
		if s.Focused() == name {
			return
		}
		s.Move(1)
	}
	t.Fatalf("setting %q is not visible", name)
}

func TestSettingsFFTSize(t *testing.T) {
	scope, graph := newTestScope(t)
	s := newSettings(scope, graph)

	assert.Equal(t, "fft size", s.Focused())
	require.NoError(t, s.Adjust(1))
	assert.Equal(t, 4096, graph.Analyser().FFTSize())
	require.NoError(t, s.Adjust(-1))
	require.NoError(t, s.Adjust(-1))
	assert.Equal(t, 1024, graph.Analyser().FFTSize())
}

func TestSettingsGrid(t *testing.T) {
	scope, graph := newTestScope(t)
	s := newSettings(scope, graph)

	focusOn(t, s, "lines")
	for range 6 {
		require.NoError(t, s.Adjust(1))
	}
	lines, samples := scope.Grid()
	assert.Equal(t, 10, lines)
	assert.Equal(t, 10, samples, "samples grow with lines")

	focusOn(t, s, "samples")
	require.Error(t, s.Adjust(-1))
	require.NoError(t, s.Adjust(1))
	_, samples = scope.Grid()
	assert.Equal(t, 11, samples)
}

func TestSettingsFilterRowsFollowFilter(t *testing.T) {
	scope, graph := newTestScope(t)
	s := newSettings(scope, graph)

	hidden := []string{"frequency", "detune", "Q", "filter gain"}
	for _, name := range hidden {
		assert.NotContains(t, s.View(40), name+" ")
	}

	focusOn(t, s, "filter")
	require.NoError(t, s.Adjust(1))
	require.True(t, scope.Filtering())
	assert.Equal(t, audio.Lowpass, graph.FilterParams().Type)

	view := s.View(40)
	assert.Contains(t, view, "frequency")
	assert.Contains(t, view, "Q ")
	assert.NotContains(t, view, "filter gain")

	focusOn(t, s, "frequency")
	require.NoError(t, s.Adjust(1))
	assert.Equal(t, 441.0, graph.FilterParams().Frequency)

	focusOn(t, s, "detune")
	require.NoError(t, s.Adjust(-1))
	assert.Equal(t, -100.0, graph.FilterParams().Detune)

	focusOn(t, s, "Q")
	require.NoError(t, s.Adjust(1))
	assert.Equal(t, 1.5, graph.FilterParams().Q)

	focusOn(t, s, "filter")
	require.NoError(t, s.Adjust(-1))
	assert.False(t, scope.Filtering())
	assert.NotContains(t, s.View(40), "frequency")
}

func TestSettingsFocusLeavesHiddenRow(t *testing.T) {
	scope, graph := newTestScope(t)
	s := newSettings(scope, graph)
	require.NoError(t, scope.SelectFilter(audio.Peaking))

	focusOn(t, s, "filter gain")
	require.NoError(t, s.Adjust(1))
	assert.Equal(t, 1.0, graph.FilterParams().Gain)

	require.NoError(t, scope.SelectFilter(""))
	assert.Equal(t, "filter", s.Focused())
}

func TestSettingsGainAndPan(t *testing.T) {
	scope, graph := newTestScope(t)
	s := newSettings(scope, graph)

	focusOn(t, s, "gain R")
	for range 15 {
		require.NoError(t, s.Adjust(1))
	}
	assert.Equal(t, audio.MaxGain, graph.Gain(audio.Right))
	assert.Equal(t, 1.0, graph.Gain(audio.Left))

	focusOn(t, s, "pan")
	for range 3 {
		require.NoError(t, s.Adjust(-1))
	}
	assert.Equal(t, -0.3, graph.Pan())
}

func TestSettingsSmoothing(t *testing.T) {
	scope, graph := newTestScope(t)
	s := newSettings(scope, graph)

	focusOn(t, s, "smoothing")
	for range 5 {
		require.NoError(t, s.Adjust(1))
	}
	assert.Equal(t, 0.95, graph.Analyser().Smoothing())
	assert.Equal(t, 0.95, graph.Original().Smoothing())
}

func TestSettingsMoveWraps(t *testing.T) {
	scope, graph := newTestScope(t)
	s := newSettings(scope, graph)

	s.Move(-1)
	assert.Equal(t, "pan", s.Focused())
	s.Move(1)
	assert.Equal(t, "fft size", s.Focused())
}

func TestSettingsViewHighlightsFocus(t *testing.T) {
	scope, graph := newTestScope(t)
	s := newSettings(scope, graph)

	view := s.View(40)
	assert.Contains(t, view, "› fft size")
	assert.Contains(t, view, "2048")
	assert.NotContains(t, view, "› lines")
}

func TestCycleFilter(t *testing.T) {
	assert.Equal(t, audio.Lowpass, cycleFilter(false, audio.Notch, 1))
	assert.Equal(t, audio.Allpass, cycleFilter(false, audio.Lowpass, -1))
	assert.Equal(t, audio.Highpass, cycleFilter(true, audio.Lowpass, 1))
	assert.Equal(t, audio.FilterType(""), cycleFilter(true, audio.Allpass, 1))
	assert.Equal(t, audio.FilterType(""), cycleFilter(true, audio.Lowpass, -1))
}
