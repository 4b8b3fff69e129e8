package surface

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/wavescope/internal/chart"
)

func TestRasterFillRect(t *testing.T) {
	r := NewRaster(20, 10)
	assert.Equal(t, 20.0, r.Width())
	assert.Equal(t, 10.0, r.Height())
	assert.Equal(t, color.RGBA{A: 255}, r.Image().RGBAAt(0, 0))

	r.FillRect(2, 2, 4, 3, red)
	assert.Equal(t, red, r.Image().RGBAAt(2, 2))
	assert.Equal(t, red, r.Image().RGBAAt(5, 4))
	assert.Equal(t, color.RGBA{A: 255}, r.Image().RGBAAt(6, 4))
	assert.Equal(t, color.RGBA{A: 255}, r.Image().RGBAAt(2, 5))
}

func TestRasterStroke(t *testing.T) {
	r := NewRaster(20, 10)
	r.StrokePolyline([]chart.Point{{X: 0, Y: 5}, {X: 19, Y: 5}}, 2, white)

	got := r.Image().RGBAAt(10, 5)
	assert.Equal(t, uint8(255), got.R)
	assert.Equal(t, color.RGBA{A: 255}, r.Image().RGBAAt(10, 0))
}

func TestRasterText(t *testing.T) {
	r := NewRaster(60, 20)
	assert.Equal(t, 21.0, r.MeasureText("abc"))

	r.FillText("HHH", 30, 0, chart.AlignCenter, chart.BaselineTop, white)

	lit := 0
	img := r.Image()
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			if img.RGBAAt(x, y).R > 0 {
				lit++
				assert.GreaterOrEqual(t, x, 19)
				assert.Less(t, x, 41)
			}
		}
	}
	assert.NotZero(t, lit)
}

func TestRasterPNGAndStack(t *testing.T) {
	top := NewRaster(8, 4)
	top.FillRect(0, 0, 8, 4, red)
	bottom := NewRaster(6, 2)

	s := Stack(top, bottom)
	assert.Equal(t, 8.0, s.Width())
	assert.Equal(t, 6.0, s.Height())
	assert.Equal(t, red, s.Image().RGBAAt(7, 3))
	assert.Equal(t, color.RGBA{A: 255}, s.Image().RGBAAt(0, 4))

	var buf bytes.Buffer
	require.NoError(t, s.WritePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}
