package audio

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

// FilterType selects the biquad response.
type FilterType string

const (
	Lowpass   FilterType = "lowpass"
	Highpass  FilterType = "highpass"
	Bandpass  FilterType = "bandpass"
	Lowshelf  FilterType = "lowshelf"
	Highshelf FilterType = "highshelf"
	Peaking   FilterType = "peaking"
	Notch     FilterType = "notch"
	Allpass   FilterType = "allpass"
)

// FilterTypes lists every filter type in menu order.
var FilterTypes = []FilterType{Lowpass, Highpass, Bandpass, Lowshelf, Highshelf, Peaking, Notch, Allpass}

// ParseFilterType looks a filter type up by name, ignoring case.
func ParseFilterType(s string) (FilterType, error) {
	name := FilterType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range FilterTypes {
		if t == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilterType, s)
}

// FilterParam names an adjustable filter parameter.
type FilterParam uint8

const (
	ParamFrequency FilterParam = iota
	ParamDetune
	ParamQ
	ParamGain
)

func (p FilterParam) String() string {
	switch p {
	case ParamFrequency:
		return "frequency"
	case ParamDetune:
		return "detune"
	case ParamQ:
		return "Q"
	case ParamGain:
		return "gain"
	}
	return "unknown"
}

// Visible reports whether p affects filters of type t. Shelves have no Q;
// only shelves and peaking filters have gain.
func (t FilterType) Visible(p FilterParam) bool {
	switch p {
	case ParamQ:
		return t != Lowshelf && t != Highshelf
	case ParamGain:
		return t == Lowshelf || t == Highshelf || t == Peaking
	}
	return true
}

// FilterParams configures a Filter.
type FilterParams struct {
	Type      FilterType
	Frequency float64 // Hz
	Detune    float64 // cents
	Q         float64 // dB for lowpass and highpass, linear otherwise
	Gain      float64 // dB
}

// DefaultFilterParams returns a 350 Hz lowpass with unity Q and no gain.
func DefaultFilterParams() FilterParams {
	return FilterParams{Type: Lowpass, Frequency: 350, Q: 1}
}

// ComputedFrequency is the cutoff after applying detune.
func (p FilterParams) ComputedFrequency() float64 {
	return p.Frequency * math.Pow(2, p.Detune/1200)
}

// shelfQ gives shelves a slope of one.
const shelfQ = 1 / math.Sqrt2

func (p FilterParams) coefficients(sampleRate float64) biquad.Coefficients {
	nyquist := sampleRate / 2
	f := min(max(p.ComputedFrequency(), 1), nyquist*0.999)

	switch p.Type {
	case Highpass:
		return design.Highpass(f, math.Pow(10, p.Q/20), sampleRate)
	case Bandpass:
		return design.Bandpass(f, p.Q, sampleRate)
	case Lowshelf:
		return design.LowShelf(f, p.Gain, shelfQ, sampleRate)
	case Highshelf:
		return design.HighShelf(f, p.Gain, shelfQ, sampleRate)
	case Peaking:
		return design.Peak(f, p.Gain, p.Q, sampleRate)
	case Notch:
		return design.Notch(f, p.Q, sampleRate)
	case Allpass:
		return design.Allpass(f, p.Q, sampleRate)
	default:
		return design.Lowpass(f, math.Pow(10, p.Q/20), sampleRate)
	}
}

// Filter is a stereo biquad. Changing parameters keeps the filter state so
// sweeps do not click. Not safe for concurrent use; Graph serializes access.
type Filter struct {
	params     FilterParams
	sampleRate float64
	sections   [2]*biquad.Section
}

// NewFilter designs a filter for sampleRate.
func NewFilter(sampleRate float64, p FilterParams) *Filter {
	f := &Filter{params: p, sampleRate: sampleRate}
	c := p.coefficients(sampleRate)
	f.sections[Left] = biquad.NewSection(c)
	f.sections[Right] = biquad.NewSection(c)
	return f
}

// Params returns the current parameters.
func (f *Filter) Params() FilterParams {
	return f.params
}

// SetParams redesigns the coefficients.
func (f *Filter) SetParams(p FilterParams) {
	f.params = p
	f.redesign()
}

// SetSampleRate redesigns the coefficients for a new rate.
func (f *Filter) SetSampleRate(rate float64) {
	f.sampleRate = rate
	f.redesign()
}

func (f *Filter) redesign() {
	c := f.params.coefficients(f.sampleRate)
	for _, s := range f.sections {
		s.Coefficients = c
	}
}

// Process filters one sample of channel ch.
func (f *Filter) Process(ch Channel, x float64) float64 {
	return f.sections[ch].ProcessSample(x)
}

// Reset clears the filter state.
func (f *Filter) Reset() {
	for _, s := range f.sections {
		s.Reset()
	}
}

// MagnitudeDB returns the filter's gain at freq Hz.
func (f *Filter) MagnitudeDB(freq float64) float64 {
	c := f.sections[Left].Coefficients
	return c.MagnitudeDB(freq, f.sampleRate)
}
