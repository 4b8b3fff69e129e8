package chart

import "image/color"

// Frequency bar option keys.
const (
	KeyDrawLabels         OptionKey = "drawLabels"
	KeyDrawChromaticScale OptionKey = "drawChromaticScale"
	KeyUseSolfege         OptionKey = "useSolfege"
	KeyLogScale           OptionKey = "logScale"
	KeyScaleX             OptionKey = "scaleX"
	KeyBarStyle           OptionKey = "barStyle"
)

// FrequencyLinkedKeys are the options a FrequencyBars chart forwards to its
// linked charts.
var FrequencyLinkedKeys = Keys(KeyScaleX, KeyLogScale)

// FrequencyOptions are the tunables of a FrequencyBars chart.
type FrequencyOptions struct {
	DrawLabels         bool
	DrawChromaticScale bool
	UseSolfege         bool
	ClearCanvas        bool
	LogScale           bool
	// ScaleX is the horizontal zoom factor; 2 shows half the spectrum width.
	ScaleX   float64
	BarStyle Style
}

// DefaultFrequencyOptions returns the options a new FrequencyBars starts with.
func DefaultFrequencyOptions() FrequencyOptions {
	return FrequencyOptions{
		DrawLabels:  true,
		ClearCanvas: true,
		ScaleX:      1,
		BarStyle:    DefaultStyle(),
	}
}

// FrequencyPatch is a partial FrequencyOptions update.
type FrequencyPatch struct {
	DrawLabels         *bool
	DrawChromaticScale *bool
	UseSolfege         *bool
	ClearCanvas        *bool
	LogScale           *bool
	ScaleX             *float64
	BarStyle           *Style
}

func (p FrequencyPatch) ApplyTo(o *FrequencyOptions) {
	apply(&o.DrawLabels, p.DrawLabels)
	apply(&o.DrawChromaticScale, p.DrawChromaticScale)
	apply(&o.UseSolfege, p.UseSolfege)
	apply(&o.ClearCanvas, p.ClearCanvas)
	apply(&o.LogScale, p.LogScale)
	apply(&o.ScaleX, p.ScaleX)
	apply(&o.BarStyle, p.BarStyle)
}

func (p FrequencyPatch) Only(keys KeySet) FrequencyPatch {
	return FrequencyPatch{
		DrawLabels:         only(keys, KeyDrawLabels, p.DrawLabels),
		DrawChromaticScale: only(keys, KeyDrawChromaticScale, p.DrawChromaticScale),
		UseSolfege:         only(keys, KeyUseSolfege, p.UseSolfege),
		ClearCanvas:        only(keys, KeyClearCanvas, p.ClearCanvas),
		LogScale:           only(keys, KeyLogScale, p.LogScale),
		ScaleX:             only(keys, KeyScaleX, p.ScaleX),
		BarStyle:           only(keys, KeyBarStyle, p.BarStyle),
	}
}

func (o FrequencyOptions) patch() FrequencyPatch {
	return FrequencyPatch{
		DrawLabels:         Opt(o.DrawLabels),
		DrawChromaticScale: Opt(o.DrawChromaticScale),
		UseSolfege:         Opt(o.UseSolfege),
		ClearCanvas:        Opt(o.ClearCanvas),
		LogScale:           Opt(o.LogScale),
		ScaleX:             Opt(o.ScaleX),
		BarStyle:           Opt(o.BarStyle),
	}
}

// FrequencyBars draws a spectrum bar graph with an optional logarithmic
// frequency axis, a musical-note overlay, horizontal zoom and drag panning.
type FrequencyBars struct {
	*Animator[FrequencyOptions, FrequencyPatch]

	source   SampleSource
	canvas   Canvas
	pointers PointerSource

	removePointer func()
	dragging      bool

	data           []byte
	startX         float64
	width          float64
	height         float64
	barUnitWidth   float64
	barUnitSpacing float64
}

// NewFrequencyBars creates an inactive frequency bar chart with default
// options. pointers may be nil for charts that are never panned directly,
// such as charts linked to a parent that receives the drag.
func NewFrequencyBars(frames FrameScheduler, source SampleSource, canvas Canvas, pointers PointerSource) *FrequencyBars {
	f := &FrequencyBars{source: source, canvas: canvas, pointers: pointers}
	f.Animator = newAnimator(frames, DefaultFrequencyOptions(), FrequencyLinkedKeys, FrequencyOptions.patch, f)
	return f
}

// Start begins drawing and subscribes to pointer events.
func (f *FrequencyBars) Start() {
	f.Animator.Start()
	if f.removePointer == nil && f.pointers != nil {
		f.removePointer = f.pointers.AddPointerListener(f)
	}
}

// Stop stops drawing and drops the pointer subscription.
func (f *FrequencyBars) Stop() {
	f.Animator.Stop()
	if f.removePointer != nil {
		f.removePointer()
		f.removePointer = nil
	}
	f.dragging = false
}

// Pan returns the horizontal pan offset. It is never positive.
func (f *FrequencyBars) Pan() float64 {
	return f.startX
}

func (f *FrequencyBars) PointerDown() {
	f.dragging = true
}

func (f *FrequencyBars) PointerMove(dx float64) {
	if f.dragging {
		f.startX = min(0, f.startX+dx)
	}
}

func (f *FrequencyBars) PointerUp() {
	f.dragging = false
}

func (f *FrequencyBars) innerReset() {
	f.data = make([]byte, f.source.FrameResolution())
	f.width = f.canvas.Width() / f.Options().ScaleX
	f.height = f.canvas.Height()

	f.startX = 0

	spacingTotal := f.width / 10
	n := float64(len(f.data))
	f.barUnitWidth = (f.width - spacingTotal) / n
	f.barUnitSpacing = spacingTotal / (n - 1)
}

func (f *FrequencyBars) draw() {
	f.source.FrequencyFrame(f.data)
	opts := f.Options()

	if opts.ClearCanvas {
		f.canvas.FillRect(0, 0, f.canvas.Width(), f.canvas.Height(), colorBlack)
	}

	scale := chromaticScale
	if opts.UseSolfege {
		scale = solfegeScale
	}

	if opts.DrawChromaticScale && opts.LogScale {
		f.drawNoteScale(scale, opts.DrawLabels)
	}

	f.drawBars(len(scale), opts)
}

func (f *FrequencyBars) layout(units int, logScale bool) barLayout {
	return barLayout{
		nyquist:  f.source.SampleRate() / 2,
		startX:   f.startX,
		limit:    f.canvas.Width(),
		unit:     f.barUnitWidth,
		spacing:  f.barUnitSpacing,
		logScale: logScale,
		units:    units,
	}
}

func (f *FrequencyBars) drawBars(units int, opts FrequencyOptions) {
	height := f.canvas.Height()
	var gate labelGate

	for _, b := range f.layout(units, opts.LogScale).bars(f.data) {
		barHeight := b.Magnitude / 255 * height * barHeightRatio
		y := height - barHeight

		last := f.data[b.Bin]
		fill := opts.BarStyle.Resolve(func() color.RGBA {
			return rgb(channel(float64(last)/2+150), 0, 0)
		})
		f.canvas.FillRect(b.X, y, b.Width, barHeight, fill)

		if !opts.DrawLabels {
			continue
		}
		label := barLabel(b.Frequency)
		labelWidth := f.canvas.MeasureText(label)
		centerX := b.X + b.Width/2
		if gate.admit(centerX-labelWidth/2, labelWidth) {
			f.canvas.FillText(label, centerX, y-labelLift, AlignCenter, BaselineAlphabetic, colorWhite)
		}
	}
}
