package chart

import "image/color"

// Waveform option keys.
const (
	KeyClearCanvas OptionKey = "clearCanvas"
	KeyLineStyle   OptionKey = "lineStyle"
)

// WaveformOptions are the tunables of a Waveform chart.
type WaveformOptions struct {
	// ClearCanvas fills the background each time the trace grid restarts at
	// its origin.
	ClearCanvas bool
	// LineStyle overrides the scroll-position trace colour.
	LineStyle Style
}

// DefaultWaveformOptions returns the options a new Waveform starts with.
func DefaultWaveformOptions() WaveformOptions {
	return WaveformOptions{ClearCanvas: true, LineStyle: DefaultStyle()}
}

// WaveformPatch is a partial WaveformOptions update.
type WaveformPatch struct {
	ClearCanvas *bool
	LineStyle   *Style
}

func (p WaveformPatch) ApplyTo(o *WaveformOptions) {
	apply(&o.ClearCanvas, p.ClearCanvas)
	apply(&o.LineStyle, p.LineStyle)
}

func (p WaveformPatch) Only(keys KeySet) WaveformPatch {
	return WaveformPatch{
		ClearCanvas: only(keys, KeyClearCanvas, p.ClearCanvas),
		LineStyle:   only(keys, KeyLineStyle, p.LineStyle),
	}
}

func (o WaveformOptions) patch() WaveformPatch {
	return WaveformPatch{ClearCanvas: Opt(o.ClearCanvas), LineStyle: Opt(o.LineStyle)}
}

// Waveform draws a scrolling grid of oscilloscope traces. Each frame fills
// the next slot of the current row; rows stack top to bottom and the grid
// wraps back to the top-left once every slot has been drawn.
type Waveform struct {
	*Animator[WaveformOptions, WaveformPatch]

	source SampleSource
	canvas Canvas
	grid   GridConfig

	data []byte

	maxDrawSpanY int
	maxDrawSpanX float64
	drawSpanX    int
	drawSpanY    int
	y            float64
}

// NewWaveform creates an inactive waveform chart with default options.
func NewWaveform(frames FrameScheduler, source SampleSource, canvas Canvas, grid GridConfig) *Waveform {
	w := &Waveform{source: source, canvas: canvas, grid: grid}
	w.Animator = newAnimator(frames, DefaultWaveformOptions(), nil, WaveformOptions.patch, w)
	return w
}

// Cursor returns the grid slot the next frame is drawn into.
func (w *Waveform) Cursor() (x, y int) {
	return w.drawSpanX, w.drawSpanY
}

func (w *Waveform) innerReset() {
	w.data = make([]byte, w.source.FrameResolution())
	w.maxDrawSpanY = w.grid.DrawLines()
	w.maxDrawSpanX = float64(w.grid.DrawSamples()) / float64(w.maxDrawSpanY)
	w.drawSpanX = 0
	w.drawSpanY = 0
	w.y = 0
}

func (w *Waveform) defaultLineColor() color.RGBA {
	return rgb(
		channel(255*float64(w.drawSpanX)/w.maxDrawSpanX),
		0,
		channel(255*float64(w.drawSpanY)/float64(w.maxDrawSpanY)),
	)
}

func (w *Waveform) draw() {
	w.source.TimeDomainFrame(w.data)

	width, height := w.canvas.Width(), w.canvas.Height()
	opts := w.Options()

	if opts.ClearCanvas && w.drawSpanX == 0 && w.drawSpanY == 0 {
		w.canvas.FillRect(0, 0, width, height, colorLightGray)
	}

	sliceWidth := (width / w.maxDrawSpanX) / float64(len(w.data))
	x := float64(w.drawSpanX) * width / w.maxDrawSpanX
	rowHeight := height / float64(w.maxDrawSpanY)
	rowTop := float64(w.drawSpanY) * rowHeight

	pts := make([]Point, 0, len(w.data)+1)
	if w.drawSpanX > 0 {
		pts = append(pts, Point{X: x - sliceWidth, Y: w.y})
	}
	for _, b := range w.data {
		v := float64(b) / 128
		w.y = rowTop + v*rowHeight/2
		pts = append(pts, Point{X: x, Y: w.y})
		x += sliceWidth
	}

	w.canvas.StrokePolyline(pts, 1, opts.LineStyle.Resolve(w.defaultLineColor))

	w.advance()
}

func (w *Waveform) advance() {
	w.drawSpanX++
	if float64(w.drawSpanX) >= w.maxDrawSpanX {
		w.drawSpanX = 0
		w.drawSpanY++
		if w.drawSpanY >= w.maxDrawSpanY {
			w.drawSpanY = 0
		}
	}
}
