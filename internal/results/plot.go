// Package results projects the stored response collection for display and
// export.
package results

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/ashureev/odorcolor/internal/colorspace"
	"github.com/ashureev/odorcolor/internal/domain"
	"github.com/ashureev/odorcolor/internal/raster"
	"github.com/ashureev/odorcolor/internal/wheel"
)

// DefaultPlotSize is the side of the aggregate plot in pixels.
const DefaultPlotSize = 360

const (
	backgroundAlpha  = 60
	gridRings        = 4
	gridSpokes       = 12
	pointRadius      = 5.0
	pointStrokeWidth = 1.5
	gridStrokeWidth  = 1.0
)

var (
	gridColor   = color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	pointStroke = color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
)

// Plot draws every sample of every response onto a faint copy of the wheel.
func Plot(g wheel.Geometry, responses []domain.Response) *image.NRGBA {
	img := g.Disc(backgroundAlpha)
	canvas := raster.NewCanvas(img)
	c, r := g.Center(), g.Radius()

	for i := gridRings; i > 0; i-- {
		canvas.StrokeCircle(c, c, r*float64(i)/gridRings, gridStrokeWidth, gridColor)
	}
	for i := 1; i <= gridSpokes; i++ {
		a := 2 * math.Pi * float64(i) / gridSpokes
		canvas.StrokeLine(c, c, c+r*math.Cos(a), c+r*math.Sin(a), gridStrokeWidth, gridColor)
	}

	for _, resp := range responses {
		for _, sample := range resp.Colors {
			x, y := g.Marker(sample)
			canvas.FillCircle(x, y, pointRadius, colorspace.HexToRGB(sample.Hex).NRGBA(0xff))
			canvas.StrokeCircle(x, y, pointRadius, pointStrokeWidth, pointStroke)
		}
	}
	return img
}

// PlotPNG encodes Plot as PNG.
func PlotPNG(g wheel.Geometry, responses []domain.Response) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Plot(g, responses)); err != nil {
		return nil, fmt.Errorf("encode plot: %w", err)
	}
	return buf.Bytes(), nil
}
