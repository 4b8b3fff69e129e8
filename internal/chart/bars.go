package chart

import (
	"math"
	"strconv"
)

const (
	// minBarWidth is the narrowest bar drawn; narrower bins are merged into
	// the next bar.
	minBarWidth = 0.5
	// minLabelGap is the smallest horizontal gap between two bar labels.
	minLabelGap = 20
	// labelLift is the distance between a bar's top and its label baseline.
	labelLift = 20
	// barHeightRatio is the share of the canvas height a full-scale bar uses.
	barHeightRatio = 0.8
)

type bar struct {
	X         float64
	Width     float64
	Magnitude float64 // average of the merged bins, 0..255
	Frequency float64 // center frequency of the last merged bin
	Bin       int     // index of the last merged bin
}

// barLayout maps frequency bins to bars along the horizontal axis.
type barLayout struct {
	nyquist  float64
	startX   float64
	limit    float64
	unit     float64
	spacing  float64
	logScale bool
	units    int
}

// logScaleFactor is the number of bar units between two frequencies on a log
// axis with units per octave.
func logScaleFactor(units int, freq, prev float64) float64 {
	return float64(units) * (math.Log2(freq) - math.Log2(prev))
}

// bars walks the bins left to right and stops once the cursor reaches the
// layout limit.
func (l barLayout) bars(data []byte) []bar {
	var (
		out      []bar
		x        = l.startX
		prevFreq = 1.0
		sum      float64
		count    int
	)

	n := float64(len(data))
	for i, v := range data {
		sum += float64(v)
		count++

		freq := l.nyquist * float64(i+1) / n

		var width, spacing float64
		if l.logScale {
			k := logScaleFactor(l.units, freq, prevFreq)
			width = l.unit * k
			spacing = l.spacing * k
		} else {
			width = l.unit * float64(count)
			spacing = l.spacing
		}

		if x >= l.limit {
			break
		}
		if width < minBarWidth {
			continue
		}

		out = append(out, bar{
			X:         x,
			Width:     width,
			Magnitude: sum / float64(count),
			Frequency: freq,
			Bin:       i,
		})

		x += width + spacing
		prevFreq = freq
		sum, count = 0, 0
	}
	return out
}

// labelGate admits labels left to right, rejecting any that start closer
// than minLabelGap to the end of the last admitted label.
type labelGate struct {
	admitted bool
	lastEnd  float64
}

func (g *labelGate) admit(start, width float64) bool {
	if g.admitted && start-g.lastEnd < minLabelGap {
		return false
	}
	g.admitted = true
	g.lastEnd = start + width
	return true
}

func barLabel(freq float64) string {
	return strconv.FormatFloat(math.Round(freq), 'f', -1, 64) + "Hz"
}
