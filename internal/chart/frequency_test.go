package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBars(pointers PointerSource) (*FrequencyBars, *recordCanvas, *constSource) {
	canvas := newRecordCanvas(400, 100)
	src := &constSource{magnitude: 200, rate: 48000, resolution: 64}
	f := NewFrequencyBars(NewFrameLoop(), src, canvas, pointers)
	f.Reset()
	return f, canvas, src
}

func assertCursorMonotonic(t *testing.T, bars []bar, limit float64) {
	t.Helper()
	require.NotEmpty(t, bars)
	for i, b := range bars {
		assert.Less(t, b.X, limit, "bar %d starts past the canvas", i)
		assert.GreaterOrEqual(t, b.Width, minBarWidth)
		if i > 0 {
			assert.GreaterOrEqual(t, b.X, bars[i-1].X+bars[i-1].Width, "bar %d overlaps its predecessor", i)
		}
	}
}

func TestBarCursorMonotonicLinear(t *testing.T) {
	f, _, _ := newTestBars(nil)
	f.data = make([]byte, 64)

	bars := f.layout(12, false).bars(f.data)
	assertCursorMonotonic(t, bars, 400)
	assert.Len(t, bars, 64)
	assert.InDelta(t, 5.625, bars[0].Width, 1e-9)
	assert.Equal(t, 63, bars[63].Bin)
	assert.InDelta(t, 24000, bars[63].Frequency, 1e-9)
}

func TestBarCursorStopsAtCanvasWidth(t *testing.T) {
	f, _, _ := newTestBars(nil)
	f.SetOptions(FrequencyPatch{ScaleX: Opt(0.5)})

	bars := f.layout(12, false).bars(f.data)
	assertCursorMonotonic(t, bars, 400)
	assert.Less(t, len(bars), 64)
}

func TestBarCursorMonotonicLogScale(t *testing.T) {
	f, _, _ := newTestBars(nil)
	f.SetOptions(FrequencyPatch{LogScale: Opt(true), ScaleX: Opt(2.0)})
	f.startX = -150

	bars := f.layout(12, true).bars(f.data)
	assertCursorMonotonic(t, bars, 400)
	assert.Equal(t, -150.0, bars[0].X)
}

func TestBarsMergeNarrowBins(t *testing.T) {
	l := barLayout{nyquist: 1000, limit: 1000, unit: 0.2, spacing: 0.1, units: 12}
	data := []byte{10, 20, 30, 40, 50, 60}

	bars := l.bars(data)
	require.Len(t, bars, 2)
	assert.InDelta(t, 0.6, bars[0].Width, 1e-9)
	assert.Equal(t, 20.0, bars[0].Magnitude)
	assert.Equal(t, 2, bars[0].Bin)
	assert.InDelta(t, 0.7, bars[1].X, 1e-9)
	assert.Equal(t, 50.0, bars[1].Magnitude)
}

func TestLogScaleFactorIsOneScalePerOctave(t *testing.T) {
	assert.InDelta(t, 12, logScaleFactor(12, 200, 100), 1e-9)
	assert.InDelta(t, 12, logScaleFactor(12, 880, 440), 1e-9)
	assert.InDelta(t, 1, logScaleFactor(12, 440*math.Pow(2, 1.0/12), 440), 1e-9)
}

func TestLabelGateDeclutters(t *testing.T) {
	var gate labelGate
	var drawn []float64
	for _, x := range []float64{0, 5, 25, 45} {
		if gate.admit(x, 0) {
			drawn = append(drawn, x)
		}
	}
	assert.Equal(t, []float64{0, 25, 45}, drawn)
}

func TestLabelGateMeasuresFromLabelEnd(t *testing.T) {
	var gate labelGate
	assert.True(t, gate.admit(0, 30))
	assert.False(t, gate.admit(49, 30))
	assert.True(t, gate.admit(50, 30))
}

func TestDrawnLabelsKeepMinimumGap(t *testing.T) {
	f, canvas, _ := newTestBars(nil)
	f.draw()

	texts := canvas.filter("text")
	require.NotEmpty(t, texts)
	assert.Equal(t, barLabel(375), texts[0].text)
	for i := 1; i < len(texts); i++ {
		prevEnd := texts[i-1].x + canvas.MeasureText(texts[i-1].text)/2
		start := texts[i].x - canvas.MeasureText(texts[i].text)/2
		assert.GreaterOrEqual(t, start-prevEnd, float64(minLabelGap))
	}
}

func TestBarDrawing(t *testing.T) {
	f, canvas, _ := newTestBars(nil)
	f.draw()

	rects := canvas.filter("rect")
	require.Len(t, rects, 65)
	assert.Equal(t, colorBlack, rects[0].c)

	b := rects[1]
	assert.Equal(t, rgb(250, 0, 0), b.c)
	assert.InDelta(t, 200.0/255*100*barHeightRatio, b.h, 1e-9)
	assert.InDelta(t, 100, b.y+b.h, 1e-9)

	label := canvas.filter("text")[0]
	assert.InDelta(t, b.y-labelLift, label.y, 1e-9)
	assert.Equal(t, AlignCenter, label.align)
}

func TestBarStyleOverrideAndNoLabels(t *testing.T) {
	f, canvas, _ := newTestBars(nil)
	grey := FixedStyle(colorGray)
	f.SetOptions(FrequencyPatch{BarStyle: &grey, DrawLabels: Opt(false), ClearCanvas: Opt(false)})
	f.draw()

	rects := canvas.filter("rect")
	require.Len(t, rects, 64)
	for _, r := range rects {
		assert.Equal(t, colorGray, r.c)
	}
	assert.Empty(t, canvas.filter("text"))
}

func TestPanClampsAtOrigin(t *testing.T) {
	hub := NewPointerHub()
	f, _, _ := newTestBars(hub)
	f.Start()

	hub.Down()
	hub.Move(50)
	assert.Equal(t, 0.0, f.Pan())

	hub.Move(-30)
	assert.Equal(t, -30.0, f.Pan())

	hub.Move(10)
	assert.Equal(t, -20.0, f.Pan())

	hub.Move(100)
	assert.Equal(t, 0.0, f.Pan())

	hub.Up()
	hub.Move(-10)
	assert.Equal(t, 0.0, f.Pan())
}

func TestPanIgnoresMoveWithoutPress(t *testing.T) {
	hub := NewPointerHub()
	f, _, _ := newTestBars(hub)
	f.Start()

	hub.Move(-40)
	assert.Equal(t, 0.0, f.Pan())
}

func TestPointerListenerFollowsActivity(t *testing.T) {
	hub := NewPointerHub()
	f, _, _ := newTestBars(hub)
	assert.Zero(t, hub.Len())

	f.Start()
	f.Start()
	assert.Equal(t, 1, hub.Len())

	f.Stop()
	f.Stop()
	assert.Zero(t, hub.Len())

	hub.Down()
	hub.Move(-10)
	assert.Equal(t, 0.0, f.Pan())
}

func TestResetRestoresPan(t *testing.T) {
	hub := NewPointerHub()
	f, _, _ := newTestBars(hub)
	f.Start()
	hub.Down()
	hub.Move(-25)
	require.Equal(t, -25.0, f.Pan())

	f.Reset()
	assert.Equal(t, 0.0, f.Pan())
}

func TestFrequencyForwardsScaleButNotLabels(t *testing.T) {
	parent, _, _ := newTestBars(nil)
	shadow, _, _ := newTestBars(nil)
	parent.Link(shadow)

	parent.SetOptions(FrequencyPatch{ScaleX: Opt(2.0), DrawLabels: Opt(false), LogScale: Opt(true)})

	assert.Equal(t, 2.0, shadow.Options().ScaleX)
	assert.True(t, shadow.Options().LogScale)
	assert.True(t, shadow.Options().DrawLabels)
	assert.False(t, parent.Options().DrawLabels)
}

func TestLinkedShadowDrawsBeforeParent(t *testing.T) {
	loop := NewFrameLoop()
	canvas := newRecordCanvas(400, 100)
	src := &constSource{magnitude: 100, rate: 48000, resolution: 64}

	parent := NewFrequencyBars(loop, src, canvas, nil)
	shadow := NewFrequencyBars(loop, src, canvas, nil)
	grey := FixedStyle(colorGray)
	shadow.SetOptions(FrequencyPatch{BarStyle: &grey})

	parent.Start()
	parent.Link(shadow)
	canvas.reset()
	loop.Fire()

	rects := canvas.filter("rect")
	require.Len(t, rects, 130)
	assert.Equal(t, colorGray, rects[1].c)
	assert.Equal(t, rgb(200, 0, 0), rects[66].c)
}

func TestNoteScaleNeedsLogScale(t *testing.T) {
	f, canvas, _ := newTestBars(nil)
	f.SetOptions(FrequencyPatch{DrawChromaticScale: Opt(true)})
	f.draw()

	for _, r := range canvas.filter("rect") {
		assert.NotEqual(t, colorDarkBand, r.c)
	}
}

// zoomedNoteScale zooms until a note label fits and pans C0 to the left edge.
func zoomedNoteScale(t *testing.T, solfege bool) *recordCanvas {
	t.Helper()
	f, canvas, _ := newTestBars(nil)
	f.SetOptions(FrequencyPatch{
		LogScale:           Opt(true),
		DrawChromaticScale: Opt(true),
		UseSolfege:         Opt(solfege),
		ScaleX:             Opt(1.0 / 16),
	})
	noteWidth := f.barUnitWidth + f.barUnitSpacing
	f.startX = -(math.Log2(c0)*12*noteWidth - noteWidth/2)
	canvas.reset()
	f.draw()
	return canvas
}

func TestNoteScaleOverlay(t *testing.T) {
	canvas := zoomedNoteScale(t, false)

	rects := canvas.filter("rect")
	require.GreaterOrEqual(t, len(rects), 2)
	assert.Equal(t, colorDarkBand, rects[1].c)
	assert.InDelta(t, 0, rects[1].x, 1e-9)

	var dividers int
	for _, l := range canvas.filter("line") {
		if l.c == colorGray {
			dividers++
			assert.Equal(t, float64(noteLabelTop), l.pts[0].Y)
		}
	}
	assert.Equal(t, 12, dividers)

	var notes []string
	var freqLabel string
	for _, txt := range canvas.filter("text") {
		switch txt.c {
		case colorGray:
			notes = append(notes, txt.text)
		case colorWhite:
			if freqLabel == "" {
				freqLabel = txt.text
			}
		}
	}
	require.Len(t, notes, 12)
	assert.Equal(t, "C₀", notes[0])
	assert.Equal(t, "A#₀", notes[10])
	assert.Equal(t, "16.35 Hz", freqLabel)
}

func TestNoteScaleSolfege(t *testing.T) {
	canvas := zoomedNoteScale(t, true)

	var notes []string
	for _, txt := range canvas.filter("text") {
		if txt.c == colorGray {
			notes = append(notes, txt.text)
		}
	}
	require.Len(t, notes, 12)
	assert.Equal(t, "Do₀", notes[0])
	assert.Equal(t, "Do#₀", notes[1])
	assert.Equal(t, "Sol₀", notes[7])
}

func TestNoteScaleSkipsLabelsThatDoNotFit(t *testing.T) {
	f, canvas, _ := newTestBars(nil)
	f.SetOptions(FrequencyPatch{LogScale: Opt(true), DrawChromaticScale: Opt(true), ScaleX: Opt(180.0 / 64)})
	f.draw()

	rects := canvas.filter("rect")
	require.GreaterOrEqual(t, len(rects), 2)
	assert.Equal(t, colorDarkBand, rects[1].c)
	for _, txt := range canvas.filter("text") {
		assert.NotEqual(t, colorGray, txt.c)
		assert.NotEqual(t, "16.35 Hz", txt.text)
	}
}

func TestSubscript(t *testing.T) {
	assert.Equal(t, "₀", subscript(0))
	assert.Equal(t, "₁₀", subscript(10))
}

func TestBarLabel(t *testing.T) {
	assert.Equal(t, "375Hz", barLabel(375))
	assert.Equal(t, "1465Hz", barLabel(1464.84375))
}
