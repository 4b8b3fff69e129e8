package chart

import (
	"math"
	"strconv"
	"strings"
)

// c0 is the frequency of C in octave 0, in Hz.
const c0 = 16.35

const (
	noteLabelTop    = 30
	noteLabelMargin = 5
)

var chromaticScale = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var solfegeScale = toSolfege(chromaticScale)

var solfegeNames = map[byte]string{
	'C': "Do",
	'D': "Re",
	'E': "Mi",
	'F': "Fa",
	'G': "Sol",
	'A': "La",
	'B': "Si",
}

// toSolfege renames each note's letter, keeping any accidental.
func toSolfege(notes []string) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = solfegeNames[n[0]] + n[1:]
	}
	return out
}

// subscript renders n with Unicode subscript digits.
func subscript(n int) string {
	var b strings.Builder
	for _, r := range strconv.Itoa(n) {
		b.WriteRune(r - '0' + '₀')
	}
	return b.String()
}

func (f *FrequencyBars) fits(text string, maxWidth float64) bool {
	return f.canvas.MeasureText(text) <= maxWidth
}

// drawNoteScale shades one band per octave from C0 and divides each band
// into one column per note of scale. Labels that do not fit are skipped.
func (f *FrequencyBars) drawNoteScale(scale []string, withLabels bool) {
	width, height := f.canvas.Width(), f.canvas.Height()

	noteWidth := f.barUnitWidth + f.barUnitSpacing
	sectionWidth := float64(len(scale)) * noteWidth
	maxNoteWidth := noteWidth - 2

	octave := 0
	freq := c0
	x := f.startX + math.Log2(freq)*sectionWidth - noteWidth/2
	even := true

	for x < width {
		band := colorBlack
		if even {
			band = colorDarkBand
		}
		f.canvas.FillRect(x, 0, sectionWidth, height, band)

		octaveText := subscript(octave)
		if f.fits(scale[0]+octaveText, maxNoteWidth) {
			for i, note := range scale {
				noteX := x + float64(i)*noteWidth
				divider := noteX + noteWidth - 1
				f.canvas.StrokePolyline([]Point{
					{X: divider, Y: noteLabelTop},
					{X: divider, Y: height},
				}, 1, colorGray)

				label := note + octaveText
				if f.fits(label, maxNoteWidth) {
					f.canvas.FillText(label, noteX+noteWidth/2-1, noteLabelTop, AlignCenter, BaselineTop, colorGray)
				}
			}
		}

		if withLabels {
			label := strconv.FormatFloat(freq, 'f', -1, 64) + " Hz"
			if f.fits(label, sectionWidth-noteLabelMargin*2) {
				f.canvas.FillText(label, x+noteLabelMargin, noteLabelMargin, AlignLeft, BaselineTop, colorWhite)
			}
		}

		x += sectionWidth
		freq *= 2
		octave++
		even = !even
	}
}
