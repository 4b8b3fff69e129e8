package audio

import (
	"math"
	"time"
)

// Tone is a synthetic source: a sine whose frequency sweeps exponentially
// from one frequency to another and back over a period. It stands in for a
// live input when nothing is playing.
type Tone struct {
	sampleRate float64
	from, to   float64
	period     time.Duration
	amplitude  float64

	elapsed time.Duration
	phase   float64
	frac    float64
	buf     []float64
}

// NewTone creates a sweep between from and to Hz. A zero period holds the
// tone at from.
func NewTone(sampleRate, from, to float64, period time.Duration) *Tone {
	return &Tone{
		sampleRate: sampleRate,
		from:       from,
		to:         to,
		period:     period,
		amplitude:  0.5,
	}
}

// Frequency returns the instantaneous frequency.
func (t *Tone) Frequency() float64 {
	if t.period <= 0 || t.from == t.to {
		return t.from
	}
	pos := math.Mod(float64(t.elapsed)/float64(t.period), 1)
	// Triangle: up during the first half, down during the second.
	tri := 1 - math.Abs(2*pos-1)
	return t.from * math.Pow(t.to/t.from, tri)
}

// Sink receives generated mono samples. Analyser and Graph are sinks.
type Sink interface {
	Write(samples []float64)
}

// Advance generates dt worth of samples into every sink.
func (t *Tone) Advance(dt time.Duration, sinks ...Sink) {
	if dt <= 0 {
		return
	}
	exact := dt.Seconds()*t.sampleRate + t.frac
	n := int(exact)
	t.frac = exact - float64(n)
	if n == 0 {
		return
	}
	if cap(t.buf) < n {
		t.buf = make([]float64, n)
	}
	t.buf = t.buf[:n]

	step := time.Duration(float64(time.Second) / t.sampleRate)
	for i := range t.buf {
		t.buf[i] = t.amplitude * math.Sin(t.phase)
		t.phase += 2 * math.Pi * t.Frequency() / t.sampleRate
		if t.phase > 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
		t.elapsed += step
	}
	for _, s := range sinks {
		s.Write(t.buf)
	}
}

// Reset restarts the sweep.
func (t *Tone) Reset() {
	t.elapsed = 0
	t.phase = 0
	t.frac = 0
}
