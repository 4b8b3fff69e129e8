package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/olivier-w/wavescope/internal/chart"
)

// Raster is an in-memory RGBA canvas; one canvas unit is one pixel.
type Raster struct {
	img  *image.RGBA
	face font.Face
}

// NewRaster creates a black w x h raster.
func NewRaster(w, h int) *Raster {
	r := &Raster{
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
		face: basicfont.Face7x13,
	}
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(color.RGBA{A: 0xff}), image.Point{}, draw.Src)
	return r
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

func (r *Raster) Width() float64  { return float64(r.img.Bounds().Dx()) }
func (r *Raster) Height() float64 { return float64(r.img.Bounds().Dy()) }

func (r *Raster) FillRect(x, y, w, h float64, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, x1 := span(x, w)
	y0, y1 := span(y, h)
	rect := image.Rect(x0, y0, x1, y1).Intersect(r.img.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(r.img, rect, image.NewUniform(c), image.Point{}, draw.Over)
}

// StrokePolyline rasterizes each segment as a quad lineWidth wide.
func (r *Raster) StrokePolyline(pts []chart.Point, lineWidth float64, c color.RGBA) {
	if len(pts) < 2 {
		return
	}
	if lineWidth <= 0 {
		lineWidth = 1
	}
	b := r.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	half := lineWidth / 2

	for i := 1; i < len(pts); i++ {
		p0, p1 := pts[i-1], pts[i]
		dx, dy := p1.X-p0.X, p1.Y-p0.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// Extend each segment by half the width so joints overlap.
		ux, uy := dx/length*half, dy/length*half
		nx, ny := -uy, ux
		ax, ay := p0.X-ux, p0.Y-uy
		bx, by := p1.X+ux, p1.Y+uy

		z.MoveTo(float32(ax+nx), float32(ay+ny))
		z.LineTo(float32(bx+nx), float32(by+ny))
		z.LineTo(float32(bx-nx), float32(by-ny))
		z.LineTo(float32(ax-nx), float32(ay-ny))
		z.ClosePath()
	}
	z.Draw(r.img, b, image.NewUniform(c), image.Point{})
}

func (r *Raster) MeasureText(text string) float64 {
	return float64(font.MeasureString(r.face, text)) / 64
}

func (r *Raster) FillText(text string, x, y float64, align chart.TextAlign, baseline chart.TextBaseline, c color.RGBA) {
	if align == chart.AlignCenter {
		x -= r.MeasureText(text) / 2
	}
	if baseline == chart.BaselineTop {
		y += float64(r.face.Metrics().Ascent) / 64
	}
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(text)
}

// WritePNG encodes the raster as PNG.
func (r *Raster) WritePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Stack draws rasters top to bottom into one image as wide as the widest.
func Stack(parts ...*Raster) *Raster {
	var w, h int
	for _, p := range parts {
		b := p.img.Bounds()
		w = max(w, b.Dx())
		h += b.Dy()
	}
	out := NewRaster(w, h)
	y := 0
	for _, p := range parts {
		b := p.img.Bounds()
		draw.Draw(out.img, image.Rect(0, y, b.Dx(), y+b.Dy()), p.img, b.Min, draw.Src)
		y += b.Dy()
	}
	return out
}
