package audio

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/window"
)

const (
	MinFFTSize     = 32
	MaxFFTSize     = 32768
	DefaultFFTSize = 2048

	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0
)

// ValidFFTSize reports whether n is a power of two in [MinFFTSize, MaxFFTSize].
func ValidFFTSize(n int) bool {
	return n >= MinFFTSize && n <= MaxFFTSize && n&(n-1) == 0
}

// RoundFFTSize turns a requested size into a valid one: requests above the
// current size round up to the next power of two, anything else rounds down.
func RoundFFTSize(current, requested int) int {
	if requested < 1 {
		return MinFFTSize
	}
	var n int
	if requested > current {
		n = 1 << bits.Len(uint(requested-1))
	} else {
		n = 1 << (bits.Len(uint(requested)) - 1)
	}
	return min(max(n, MinFFTSize), MaxFFTSize)
}

// Analyser turns a mono sample stream into byte-quantized waveform and
// spectrum frames. Samples arrive from the audio goroutine through Write and
// frames are pulled from the UI goroutine, so every method is safe for
// concurrent use.
//
// Frame resolution is half the FFT size, the number of frequency bins.
type Analyser struct {
	mu sync.Mutex

	ring       *RingBuffer
	sampleRate float64

	size      int
	smoothing float64
	minDB     float64
	maxDB     float64

	window   []float64
	plan     *algofft.Plan[complex128]
	samples  []float64
	in, out  []complex128
	smoothed []float64
}

// NewAnalyser creates an analyser with the default FFT size, smoothing and
// decibel range.
func NewAnalyser(sampleRate float64) *Analyser {
	a := &Analyser{
		ring:       NewRingBuffer(MaxFFTSize),
		sampleRate: sampleRate,
		smoothing:  DefaultSmoothing,
		minDB:      DefaultMinDecibels,
		maxDB:      DefaultMaxDecibels,
	}
	if err := a.SetFFTSize(DefaultFFTSize); err != nil {
		panic(err)
	}
	return a
}

// Write appends mono samples in [-1, 1].
func (a *Analyser) Write(samples []float64) {
	a.ring.Write(samples)
}

// Clear drops buffered samples and smoothing history.
func (a *Analyser) Clear() {
	a.ring.Clear()
	a.mu.Lock()
	clear(a.smoothed)
	a.mu.Unlock()
}

// SetFFTSize changes the analysis size and resets smoothing history.
func (a *Analyser) SetFFTSize(n int) error {
	if !ValidFFTSize(n) {
		return fmt.Errorf("%w: %d", ErrInvalidFFTSize, n)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return fmt.Errorf("fft plan %d: %w", n, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.size = n
	a.plan = plan
	a.window = window.Generate(window.TypeBlackman, n, window.WithPeriodic())
	a.samples = make([]float64, n)
	a.in = make([]complex128, n)
	a.out = make([]complex128, n)
	a.smoothed = make([]float64, n/2)
	return nil
}

// FFTSize returns the analysis size.
func (a *Analyser) FFTSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.size
}

// FrameResolution returns the number of frequency bins.
func (a *Analyser) FrameResolution() int {
	return a.FFTSize() / 2
}

// SetSampleRate changes the rate reported to charts.
func (a *Analyser) SetSampleRate(rate float64) {
	a.mu.Lock()
	a.sampleRate = rate
	a.mu.Unlock()
}

func (a *Analyser) SampleRate() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sampleRate
}

// SetSmoothing sets the averaging constant between spectrum frames, in
// [0, 1).
func (a *Analyser) SetSmoothing(tau float64) error {
	if tau < 0 || tau >= 1 {
		return &ParamError{Param: "smoothing", Value: tau, Err: ErrOutOfRange}
	}
	a.mu.Lock()
	a.smoothing = tau
	a.mu.Unlock()
	return nil
}

// Smoothing returns the averaging constant.
func (a *Analyser) Smoothing() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.smoothing
}

// SetDecibelRange sets the dB values mapped to byte 0 and 255.
func (a *Analyser) SetDecibelRange(minDB, maxDB float64) error {
	if minDB >= maxDB {
		return &ParamError{Param: "minDecibels", Value: minDB, Err: ErrOutOfRange}
	}
	a.mu.Lock()
	a.minDB, a.maxDB = minDB, maxDB
	a.mu.Unlock()
	return nil
}

func clampByte(v float64) byte {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}

// TimeDomainFrame fills dst with the most recent samples mapped so that
// silence is 128.
func (a *Analyser) TimeDomainFrame(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.ring.Latest(a.samples)
	n := min(len(dst), a.size)
	for i := range n {
		dst[i] = clampByte(128 * (1 + a.samples[i]))
	}
}

// FrequencyFrame fills dst with the smoothed magnitude spectrum of the most
// recent FFT-size samples, mapped from the decibel range to 0..255.
func (a *Analyser) FrequencyFrame(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.spectrum()

	scale := 255 / (a.maxDB - a.minDB)
	n := min(len(dst), len(a.smoothed))
	for i := range n {
		db := 20 * math.Log10(a.smoothed[i])
		dst[i] = clampByte(scale * (db - a.minDB))
	}
}

// FloatFrequencyFrame fills dst with the smoothed spectrum in dB.
func (a *Analyser) FloatFrequencyFrame(dst []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.spectrum()
	n := min(len(dst), len(a.smoothed))
	for i := range n {
		dst[i] = 20 * math.Log10(a.smoothed[i])
	}
}

func (a *Analyser) spectrum() {
	a.ring.Latest(a.samples)
	for i, s := range a.samples {
		a.in[i] = complex(s*a.window[i], 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return
	}

	norm := 1 / float64(a.size)
	tau := a.smoothing
	for k := range a.smoothed {
		mag := cmplx.Abs(a.out[k]) * norm
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag
	}
}
