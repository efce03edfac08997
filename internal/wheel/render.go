package wheel

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"

	"github.com/ashureev/odorcolor/internal/colorspace"
	"github.com/ashureev/odorcolor/internal/domain"
	"github.com/ashureev/odorcolor/internal/raster"
)

var (
	borderColor       = color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	markerFill        = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	markerStroke      = color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
	markerRadius      = 8.0
	markerStrokeWidth = 2.0
)

// Disc rasterizes the hue/saturation disc with value fixed at 1. Pixels beyond
// the radius are fully transparent; pixels inside get the given alpha.
func (g Geometry) Disc(alpha uint8) *image.NRGBA {
	d := g.Size
	img := image.NewNRGBA(image.Rect(0, 0, d, d))
	c := g.Center()
	r := g.Radius()

	for y := 0; y < d; y++ {
		dy := float64(y) - c
		for x := 0; x < d; x++ {
			dx := float64(x) - c
			if math.Hypot(dx, dy) > r {
				continue
			}
			h, s := g.Polar(dx, dy)
			img.SetNRGBA(x, y, colorspace.HSVToRGB(h, s, 1).NRGBA(alpha))
		}
	}
	return img
}

// Wheel returns the opaque disc with its border ring.
func (g Geometry) Wheel() *image.NRGBA {
	img := g.Disc(255)
	raster.NewCanvas(img).StrokeCircle(g.Center(), g.Center(), g.Radius()+0.5, 2, borderColor)
	return img
}

// Renderer caches the static wheel so interaction only composites the marker.
type Renderer struct {
	geom Geometry

	once    sync.Once
	base    *image.NRGBA
	basePNG []byte
	err     error
}

// NewRenderer creates a renderer for the geometry.
func NewRenderer(g Geometry) *Renderer {
	return &Renderer{geom: g}
}

// Geometry returns the renderer's geometry.
func (r *Renderer) Geometry() Geometry {
	return r.geom
}

func (r *Renderer) init() {
	r.once.Do(func() {
		r.base = r.geom.Wheel()
		var buf bytes.Buffer
		if err := png.Encode(&buf, r.base); err != nil {
			r.err = fmt.Errorf("encode wheel: %w", err)
			return
		}
		r.basePNG = buf.Bytes()
	})
}

// PNG returns the cached PNG encoding of the bare wheel.
func (r *Renderer) PNG() ([]byte, error) {
	r.init()
	return r.basePNG, r.err
}

// Composite returns a copy of the cached wheel with a marker at the sample.
func (r *Renderer) Composite(sample domain.ColorSample) *image.NRGBA {
	r.init()
	img := image.NewNRGBA(r.base.Rect)
	copy(img.Pix, r.base.Pix)

	x, y := r.geom.Marker(sample)
	canvas := raster.NewCanvas(img)
	canvas.FillCircle(x, y, markerRadius, markerFill)
	canvas.StrokeCircle(x, y, markerRadius, markerStrokeWidth, markerStroke)
	return img
}

// CompositePNG encodes Composite(sample).
func (r *Renderer) CompositePNG(sample domain.ColorSample) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.Composite(sample)); err != nil {
		return nil, fmt.Errorf("encode wheel with marker: %w", err)
	}
	return buf.Bytes(), nil
}
