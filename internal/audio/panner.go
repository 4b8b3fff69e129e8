package audio

import "math"

// Channel indexes a stereo channel.
type Channel int

const (
	Left Channel = iota
	Right
)

func (c Channel) valid() bool {
	return c == Left || c == Right
}

// equalPowerPan pans a stereo pair with the equal-power law: pan -1 moves
// all of the right channel into the left, +1 the reverse, 0 passes through.
func equalPowerPan(pan, l, r float64) (float64, float64) {
	pan = min(max(pan, -1), 1)
	if pan <= 0 {
		x := (pan + 1) * math.Pi / 2
		return l + r*math.Cos(x), r * math.Sin(x)
	}
	x := pan * math.Pi / 2
	return l * math.Cos(x), r + l*math.Sin(x)
}
