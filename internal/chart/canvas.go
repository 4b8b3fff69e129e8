package chart

import "image/color"

// Point is a position in canvas units.
type Point struct {
	X, Y float64
}

// TextAlign is the horizontal anchor of drawn text.
type TextAlign uint8

const (
	AlignLeft TextAlign = iota
	AlignCenter
)

// TextBaseline is the vertical anchor of drawn text.
type TextBaseline uint8

const (
	// BaselineAlphabetic places y on the text baseline.
	BaselineAlphabetic TextBaseline = iota
	// BaselineTop places y on the top edge of the text.
	BaselineTop
)

// Canvas is an immediate-mode 2D drawing surface. Coordinates grow right
// and down from the top-left corner.
type Canvas interface {
	Width() float64
	Height() float64
	FillRect(x, y, w, h float64, c color.RGBA)
	StrokePolyline(pts []Point, lineWidth float64, c color.RGBA)
	FillText(text string, x, y float64, align TextAlign, baseline TextBaseline, c color.RGBA)
	MeasureText(text string) float64
}

// Style is a colour that is either computed by the chart at draw time or
// fixed by the caller.
type Style struct {
	fixed bool
	c     color.RGBA
}

// DefaultStyle lets the chart compute the colour.
func DefaultStyle() Style {
	return Style{}
}

// FixedStyle always resolves to c.
func FixedStyle(c color.RGBA) Style {
	return Style{fixed: true, c: c}
}

// IsDefault reports whether the chart computes the colour.
func (s Style) IsDefault() bool {
	return !s.fixed
}

// Resolve returns the fixed colour, or def() for the default style.
func (s Style) Resolve(def func() color.RGBA) color.RGBA {
	if s.fixed {
		return s.c
	}
	return def()
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

var (
	colorBlack     = rgb(0, 0, 0)
	colorWhite     = rgb(255, 255, 255)
	colorGray      = rgb(128, 128, 128)
	colorDarkBand  = rgb(0x22, 0x22, 0x22)
	colorLightGray = rgb(200, 200, 200)
)
