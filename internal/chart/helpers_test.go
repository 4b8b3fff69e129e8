package chart

import (
	"image/color"
	"unicode/utf8"
)

type canvasOp struct {
	kind     string
	x, y     float64
	w, h     float64
	pts      []Point
	text     string
	align    TextAlign
	baseline TextBaseline
	c        color.RGBA
}

// recordCanvas records every draw call. Text is runeWidth units per rune.
type recordCanvas struct {
	w, h      float64
	runeWidth float64
	ops       []canvasOp
}

func newRecordCanvas(w, h float64) *recordCanvas {
	return &recordCanvas{w: w, h: h, runeWidth: 6}
}

func (c *recordCanvas) Width() float64  { return c.w }
func (c *recordCanvas) Height() float64 { return c.h }

func (c *recordCanvas) FillRect(x, y, w, h float64, col color.RGBA) {
	c.ops = append(c.ops, canvasOp{kind: "rect", x: x, y: y, w: w, h: h, c: col})
}

func (c *recordCanvas) StrokePolyline(pts []Point, _ float64, col color.RGBA) {
	c.ops = append(c.ops, canvasOp{kind: "line", pts: append([]Point(nil), pts...), c: col})
}

func (c *recordCanvas) FillText(text string, x, y float64, align TextAlign, baseline TextBaseline, col color.RGBA) {
	c.ops = append(c.ops, canvasOp{kind: "text", text: text, x: x, y: y, align: align, baseline: baseline, c: col})
}

func (c *recordCanvas) MeasureText(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * c.runeWidth
}

func (c *recordCanvas) filter(kind string) []canvasOp {
	var out []canvasOp
	for _, op := range c.ops {
		if op.kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (c *recordCanvas) reset() {
	c.ops = nil
}

// constSource fills every frame with fixed values.
type constSource struct {
	wave       byte
	magnitude  byte
	rate       float64
	resolution int
	timeReads  int
	freqReads  int
}

func (s *constSource) TimeDomainFrame(dst []byte) {
	s.timeReads++
	for i := range dst {
		dst[i] = s.wave
	}
}

func (s *constSource) FrequencyFrame(dst []byte) {
	s.freqReads++
	for i := range dst {
		dst[i] = s.magnitude
	}
}

func (s *constSource) SampleRate() float64  { return s.rate }
func (s *constSource) FrameResolution() int { return s.resolution }

// probeOptions and probePatch give the animator tests a minimal chart.
type probeOptions struct {
	ScaleX     float64
	DrawLabels bool
}

type probePatch struct {
	ScaleX     *float64
	DrawLabels *bool
}

func (p probePatch) ApplyTo(o *probeOptions) {
	apply(&o.ScaleX, p.ScaleX)
	apply(&o.DrawLabels, p.DrawLabels)
}

func (p probePatch) Only(keys KeySet) probePatch {
	return probePatch{
		ScaleX:     only(keys, KeyScaleX, p.ScaleX),
		DrawLabels: only(keys, KeyDrawLabels, p.DrawLabels),
	}
}

func (o probeOptions) patch() probePatch {
	return probePatch{ScaleX: Opt(o.ScaleX), DrawLabels: Opt(o.DrawLabels)}
}

type probeChart struct {
	*Animator[probeOptions, probePatch]

	name   string
	log    *[]string
	resets int
}

func newProbe(frames FrameScheduler, name string, log *[]string) *probeChart {
	p := &probeChart{name: name, log: log}
	p.Animator = newAnimator(frames, probeOptions{ScaleX: 1, DrawLabels: true}, Keys(KeyScaleX), probeOptions.patch, p)
	return p
}

func (p *probeChart) innerReset() { p.resets++ }

func (p *probeChart) draw() {
	*p.log = append(*p.log, p.name)
}
