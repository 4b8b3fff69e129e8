// Package surface provides chart.Canvas implementations: a terminal surface
// drawn with Braille cells and an RGBA raster for image output.
package surface

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/wavescope/internal/chart"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

const (
	dotsX = 2
	dotsY = 4
	// wideTail marks the cell covered by the right half of a wide rune.
	wideTail = -1
)

type cell struct {
	dots uint8
	fg   color.RGBA
	bg   color.RGBA
	text rune
	ink  color.RGBA
}

// Braille is a terminal canvas of cols x rows cells. Every cell holds a 2x4
// grid of dots, so one canvas unit is one dot.
//
// Fills that cover a whole cell paint its background and erase its dots;
// anything smaller lights the covered dots. Text takes one cell per column of
// display width and hides the dots underneath it.
type Braille struct {
	cols, rows int
	cells      []cell
	mode       ColorMode
}

// NewBraille creates a black surface using the detected terminal colours.
func NewBraille(cols, rows int) *Braille {
	b := &Braille{mode: DetectColorMode()}
	b.Resize(cols, rows)
	return b
}

// SetColorMode overrides the detected colour mode.
func (b *Braille) SetColorMode(m ColorMode) {
	b.mode = m
}

// Resize changes the cell grid and clears it.
func (b *Braille) Resize(cols, rows int) {
	b.cols = max(cols, 1)
	b.rows = max(rows, 1)
	b.cells = make([]cell, b.cols*b.rows)
	for i := range b.cells {
		b.cells[i].bg = color.RGBA{A: 0xff}
	}
}

// Cols returns the width in cells.
func (b *Braille) Cols() int { return b.cols }

// Rows returns the height in cells.
func (b *Braille) Rows() int { return b.rows }

func (b *Braille) Width() float64  { return float64(b.cols * dotsX) }
func (b *Braille) Height() float64 { return float64(b.rows * dotsY) }

// span returns the dots whose centers lie in [start, start+length).
func span(start, length float64) (lo, hi int) {
	lo = int(math.Ceil(start - 0.5))
	hi = int(math.Ceil(start + length - 0.5))
	return lo, hi
}

func (b *Braille) at(cx, cy int) *cell {
	return &b.cells[cy*b.cols+cx]
}

func (b *Braille) setDot(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= b.cols*dotsX || y >= b.rows*dotsY {
		return
	}
	cl := b.at(x/dotsX, y/dotsY)
	cl.dots |= 1 << brailleBits[x%dotsX][y%dotsY]
	cl.fg = c
}

func (b *Braille) FillRect(x, y, w, h float64, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, x1 := span(x, w)
	y0, y1 := span(y, h)
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, b.cols*dotsX), min(y1, b.rows*dotsY)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	for cy := y0 / dotsY; cy <= (y1-1)/dotsY; cy++ {
		for cx := x0 / dotsX; cx <= (x1-1)/dotsX; cx++ {
			full := cx*dotsX >= x0 && (cx+1)*dotsX <= x1 &&
				cy*dotsY >= y0 && (cy+1)*dotsY <= y1
			if full {
				*b.at(cx, cy) = cell{bg: c}
				continue
			}
			for dy := range dotsY {
				py := cy*dotsY + dy
				if py < y0 || py >= y1 {
					continue
				}
				for dx := range dotsX {
					px := cx*dotsX + dx
					if px >= x0 && px < x1 {
						b.setDot(px, py, c)
					}
				}
			}
		}
	}
}

// dotIndex maps a canvas coordinate to the dot containing it.
func dotIndex(v float64) int {
	return int(math.Floor(v))
}

// StrokePolyline lights one dot per step along each segment; line width is
// always one dot.
func (b *Braille) StrokePolyline(pts []chart.Point, _ float64, c color.RGBA) {
	if len(pts) == 1 {
		b.setDot(dotIndex(pts[0].X), dotIndex(pts[0].Y), c)
		return
	}
	for i := 1; i < len(pts); i++ {
		b.drawLine(dotIndex(pts[i-1].X), dotIndex(pts[i-1].Y), dotIndex(pts[i].X), dotIndex(pts[i].Y), c)
	}
}

func (b *Braille) drawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		b.setDot(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (b *Braille) MeasureText(text string) float64 {
	return float64(dotsX * lipgloss.Width(text))
}

func (b *Braille) FillText(text string, x, y float64, align chart.TextAlign, baseline chart.TextBaseline, c color.RGBA) {
	if align == chart.AlignCenter {
		x -= b.MeasureText(text) / 2
	}
	cy := int(math.Floor(y / dotsY))
	if baseline == chart.BaselineAlphabetic {
		cy = int(math.Floor((y - 1) / dotsY))
	}
	if cy < 0 || cy >= b.rows {
		return
	}

	cx := int(math.Floor(x / dotsX))
	for _, r := range text {
		w := lipgloss.Width(string(r))
		if w == 0 {
			continue
		}
		if cx >= 0 && cx+w <= b.cols {
			cl := b.at(cx, cy)
			cl.text, cl.ink = r, c
			for i := 1; i < w; i++ {
				b.at(cx+i, cy).text = wideTail
			}
		}
		cx += w
	}
}

// Clear paints every cell c and drops all dots and text.
func (b *Braille) Clear(c color.RGBA) {
	for i := range b.cells {
		b.cells[i] = cell{bg: c}
	}
}

// String renders the surface as rows of Braille characters joined by
// newlines, with ANSI colour escapes unless colours are off.
func (b *Braille) String() string {
	var sb strings.Builder
	sb.Grow(b.rows * (b.cols*3 + 1))
	state := newANSIState(b.mode)

	for cy := range b.rows {
		if cy > 0 {
			state.reset(&sb)
			sb.WriteByte('\n')
		}
		for cx := range b.cols {
			cl := b.at(cx, cy)
			switch {
			case cl.text == wideTail:
			case cl.text != 0:
				state.set(&sb, cl.ink, cl.bg)
				sb.WriteRune(cl.text)
			case cl.dots != 0:
				state.set(&sb, cl.fg, cl.bg)
				sb.WriteRune(rune(0x2800 + uint(cl.dots)))
			default:
				state.set(&sb, cl.fg, cl.bg)
				sb.WriteByte(' ')
			}
		}
	}
	state.reset(&sb)
	return sb.String()
}
