package surface

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorMode describes how colours are written to the terminal.
type ColorMode uint8

const (
	ColorOff     ColorMode = iota // no colour profile
	ColorANSI16                   // basic 16-color
	ColorANSI256                  // 256-color
	ColorTrue                     // 24-bit truecolor
)

var (
	detectOnce sync.Once
	termColor  ColorMode
	seqCache   sync.Map
)

// DetectColorMode reads the stdout colour profile lipgloss detects, once.
func DetectColorMode() ColorMode {
	detectOnce.Do(func() { termColor = modeForProfile(lipgloss.ColorProfile()) })
	return termColor
}

func modeForProfile(p termenv.Profile) ColorMode {
	switch p {
	case termenv.TrueColor:
		return ColorTrue
	case termenv.ANSI256:
		return ColorANSI256
	case termenv.ANSI:
		return ColorANSI16
	}
	return ColorOff
}

const ansiReset = "\x1b[0m"

type layer uint8

const (
	foreground layer = 38
	background layer = 48
)

// colorSeq returns the escape selecting c on the given layer, or "" when
// colours are off.
func colorSeq(mode ColorMode, l layer, c color.RGBA) string {
	key := uint64(mode)<<40 | uint64(l)<<32 | uint64(rgbKey(c))
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}

	var seq string
	switch mode {
	case ColorTrue:
		seq = fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", l, c.R, c.G, c.B)
	case ColorANSI256:
		ri := int(c.R) * 5 / 255
		gi := int(c.G) * 5 / 255
		bi := int(c.B) * 5 / 255
		idx := 16 + 36*ri + 6*gi + bi
		seq = fmt.Sprintf("\x1b[%d;5;%dm", l, idx)
	case ColorANSI16:
		base := 30
		if l == background {
			base = 40
		}
		best := ansi16Nearest(c)
		if best < 8 {
			seq = fmt.Sprintf("\x1b[%dm", base+best)
		} else {
			seq = fmt.Sprintf("\x1b[%dm", base+60+best-8)
		}
	}

	seqCache.Store(key, seq)
	return seq
}

func ansi16Nearest(c color.RGBA) int {
	best := 0
	bestDist := 1<<31 - 1
	for i, p := range ansi16Palette {
		dr := int(c.R) - int(p[0])
		dg := int(c.G) - int(p[1])
		db := int(c.B) - int(p[2])
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

var ansi16Palette = [16][3]uint8{
	{0, 0, 0},       // black
	{205, 49, 49},   // red
	{13, 188, 121},  // green
	{229, 229, 16},  // yellow
	{36, 114, 200},  // blue
	{188, 63, 188},  // magenta
	{17, 168, 205},  // cyan
	{229, 229, 229}, // white
	{102, 102, 102}, // bright black
	{241, 76, 76},   // bright red
	{35, 209, 139},  // bright green
	{245, 245, 67},  // bright yellow
	{59, 142, 234},  // bright blue
	{214, 112, 214}, // bright magenta
	{41, 184, 219},  // bright cyan
	{255, 255, 255}, // bright white
}

// ansiState elides escapes that would not change the current colours.
type ansiState struct {
	mode   ColorMode
	fg, bg uint32
}

const noColor = ^uint32(0)

func newANSIState(mode ColorMode) ansiState {
	return ansiState{mode: mode, fg: noColor, bg: noColor}
}

func rgbKey(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func (s *ansiState) set(sb *strings.Builder, fg, bg color.RGBA) {
	if s.mode == ColorOff {
		return
	}
	if k := rgbKey(bg); k != s.bg {
		sb.WriteString(colorSeq(s.mode, background, bg))
		s.bg = k
	}
	if k := rgbKey(fg); k != s.fg {
		sb.WriteString(colorSeq(s.mode, foreground, fg))
		s.fg = k
	}
}

func (s *ansiState) reset(sb *strings.Builder) {
	if s.mode == ColorOff || (s.fg == noColor && s.bg == noColor) {
		return
	}
	sb.WriteString(ansiReset)
	s.fg, s.bg = noColor, noColor
}
