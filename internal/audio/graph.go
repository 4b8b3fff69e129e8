// Package audio implements the signal graph between decoded PCM and the
// audio device: optional biquad filter, per-channel gain, stereo panning and
// two analysers, one tapping the unfiltered input and one the output.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
)

// MaxGain is the largest per-channel gain.
const MaxGain = 2.0

// Graph holds the shared graph parameters. Streams created by Wrap run
// their PCM through it on the audio goroutine while the UI goroutine
// adjusts parameters, so all methods are safe for concurrent use.
type Graph struct {
	mu sync.Mutex

	sampleRate float64
	gain       [2]float64
	pan        float64
	filtering  bool
	filter     *Filter

	analyser *Analyser
	original *Analyser

	logger *slog.Logger
}

// NewGraph creates a graph with unity gain, centered pan and the filter
// bypassed.
func NewGraph(sampleRate float64, logger *slog.Logger) *Graph {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Graph{
		sampleRate: sampleRate,
		gain:       [2]float64{1, 1},
		filter:     NewFilter(sampleRate, DefaultFilterParams()),
		analyser:   NewAnalyser(sampleRate),
		original:   NewAnalyser(sampleRate),
		logger:     logger,
	}
}

// Analyser taps the graph output.
func (g *Graph) Analyser() *Analyser { return g.analyser }

// Original taps the graph input ahead of the filter.
func (g *Graph) Original() *Analyser { return g.original }

// SampleRate returns the rate streams are expected to run at.
func (g *Graph) SampleRate() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sampleRate
}

// SetSampleRate updates the filter design and both analysers.
func (g *Graph) SetSampleRate(rate float64) {
	g.mu.Lock()
	g.sampleRate = rate
	g.filter.SetSampleRate(rate)
	g.mu.Unlock()

	g.analyser.SetSampleRate(rate)
	g.original.SetSampleRate(rate)
}

// SetFFTSize resizes both analysers.
func (g *Graph) SetFFTSize(n int) error {
	if err := g.analyser.SetFFTSize(n); err != nil {
		return err
	}
	if err := g.original.SetFFTSize(n); err != nil {
		return err
	}
	g.logger.Debug("fft size changed", "size", n)
	return nil
}

// SetSmoothing sets the spectrum averaging constant of both analysers.
func (g *Graph) SetSmoothing(tau float64) error {
	if err := g.analyser.SetSmoothing(tau); err != nil {
		return err
	}
	return g.original.SetSmoothing(tau)
}

// Gain returns the gain of channel ch.
func (g *Graph) Gain(ch Channel) float64 {
	if !ch.valid() {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gain[ch]
}

// SetGain sets the linear gain of channel ch, in [0, MaxGain].
func (g *Graph) SetGain(ch Channel, v float64) error {
	if !ch.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	if v < 0 || v > MaxGain || math.IsNaN(v) {
		return &ParamError{Param: "gain", Value: v, Err: ErrOutOfRange}
	}
	g.mu.Lock()
	g.gain[ch] = v
	g.mu.Unlock()
	return nil
}

// Pan returns the stereo position.
func (g *Graph) Pan() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pan
}

// SetPan sets the stereo position in [-1, 1].
func (g *Graph) SetPan(v float64) error {
	if v < -1 || v > 1 || math.IsNaN(v) {
		return &ParamError{Param: "pan", Value: v, Err: ErrOutOfRange}
	}
	g.mu.Lock()
	g.pan = v
	g.mu.Unlock()
	return nil
}

// FilterActive reports whether the filter is in the signal path.
func (g *Graph) FilterActive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filtering
}

// SetFilterActive inserts or bypasses the filter. Inserting starts from a
// clean filter state.
func (g *Graph) SetFilterActive(on bool) {
	g.mu.Lock()
	changed := g.filtering != on
	g.filtering = on
	if changed && on {
		g.filter.Reset()
	}
	params := g.filter.Params()
	g.mu.Unlock()

	if changed {
		g.logger.Info("filter toggled", "active", on, "type", string(params.Type))
	}
}

// FilterParams returns the filter configuration.
func (g *Graph) FilterParams() FilterParams {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filter.Params()
}

// SetFilterParams reconfigures the filter.
func (g *Graph) SetFilterParams(p FilterParams) error {
	if _, err := ParseFilterType(string(p.Type)); err != nil {
		return err
	}
	if p.Frequency <= 0 || math.IsNaN(p.Frequency) {
		return &ParamError{Param: "frequency", Value: p.Frequency, Err: ErrOutOfRange}
	}
	g.mu.Lock()
	g.filter.SetParams(p)
	g.mu.Unlock()
	return nil
}

// FilterMagnitudeDB returns the filter's gain at freq Hz.
func (g *Graph) FilterMagnitudeDB(freq float64) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filter.MagnitudeDB(freq)
}

// Wrap returns a reader yielding src, interleaved signed 16-bit
// little-endian PCM with the given channel count, processed through the
// graph as stereo.
func (g *Graph) Wrap(src io.Reader, channels int) (io.Reader, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedLayout, channels)
	}
	return &stream{g: g, src: src, channels: channels}, nil
}

// stream is one source feeding the graph.
type stream struct {
	g        *Graph
	src      io.Reader
	channels int

	in    []byte
	carry int
	pre   []float64
	post  []float64
}

func (s *stream) Read(p []byte) (int, error) {
	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}

	inFrame := 2 * s.channels
	need := frames * inFrame
	if cap(s.in) < need {
		buf := make([]byte, need)
		copy(buf, s.in[:s.carry])
		s.in = buf
	}
	s.in = s.in[:need]

	n, err := s.src.Read(s.in[s.carry:need])
	n += s.carry
	got := n / inFrame
	s.carry = n - got*inFrame

	s.process(p[:got*4], s.in[:got*inFrame])
	copy(s.in, s.in[got*inFrame:n])

	if err == io.EOF && got > 0 {
		err = nil
	}
	return got * 4, err
}

func sampleAt(b []byte, i int) float64 {
	return float64(int16(binary.LittleEndian.Uint16(b[2*i:]))) / 32768
}

func putSample(b []byte, i int, v float64) {
	v = min(max(v, -1), 1)
	binary.LittleEndian.PutUint16(b[2*i:], uint16(int16(math.Round(v*32767))))
}

func (s *stream) process(dst, src []byte) {
	frames := len(dst) / 4
	s.pre = s.pre[:0]
	s.post = s.post[:0]

	g := s.g
	g.mu.Lock()
	for i := range frames {
		var l, r float64
		if s.channels == 1 {
			l = sampleAt(src, i)
			r = l
		} else {
			l = sampleAt(src, 2*i)
			r = sampleAt(src, 2*i+1)
		}
		s.pre = append(s.pre, (l+r)/2)

		l, r = g.apply(l, r)
		s.post = append(s.post, (l+r)/2)
		putSample(dst, 2*i, l)
		putSample(dst, 2*i+1, r)
	}
	g.mu.Unlock()

	g.original.Write(s.pre)
	g.analyser.Write(s.post)
}

// apply runs one stereo frame through the filter, the channel gains and the
// panner. Callers hold g.mu.
func (g *Graph) apply(l, r float64) (float64, float64) {
	if g.filtering {
		l = g.filter.Process(Left, l)
		r = g.filter.Process(Right, r)
	}
	l *= g.gain[Left]
	r *= g.gain[Right]
	return equalPowerPan(g.pan, l, r)
}

// Write runs mono input samples through the graph without producing device
// output: the original analyser sees them as they are, the main analyser
// after filter, gain and pan. It shares filter state with wrapped streams,
// so only one input should be live at a time.
func (g *Graph) Write(mono []float64) {
	post := make([]float64, len(mono))
	g.mu.Lock()
	for i, x := range mono {
		l, r := g.apply(x, x)
		post[i] = (l + r) / 2
	}
	g.mu.Unlock()

	g.original.Write(mono)
	g.analyser.Write(post)
}
