// Package raster draws anti-aliased circles and strokes onto NRGBA images.
package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// Canvas wraps an image with a reusable rasterizer. Shapes are composited
// with source-over, so translucent colors blend with what is already drawn.
type Canvas struct {
	img *image.NRGBA
	z   *vector.Rasterizer
}

// NewCanvas returns a canvas drawing into img.
func NewCanvas(img *image.NRGBA) *Canvas {
	b := img.Bounds()
	return &Canvas{img: img, z: vector.NewRasterizer(b.Dx(), b.Dy())}
}

// Image returns the underlying image.
func (c *Canvas) Image() *image.NRGBA {
	return c.img
}

// FillCircle fills a disc of radius r centered on (cx, cy).
func (c *Canvas) FillCircle(cx, cy, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	c.reset()
	c.circle(cx, cy, r, false)
	c.draw(col)
}

// StrokeCircle draws a ring of the given width centered on radius r.
func (c *Canvas) StrokeCircle(cx, cy, r, width float64, col color.Color) {
	if width <= 0 {
		return
	}
	outer := r + width/2
	inner := r - width/2
	c.reset()
	c.circle(cx, cy, outer, false)
	if inner > 0 {
		// Opposite winding cancels the inner disc.
		c.circle(cx, cy, inner, true)
	}
	c.draw(col)
}

// StrokeLine draws a segment of the given width with butt ends.
func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, col color.Color) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 || width <= 0 {
		return
	}
	nx := -dy / length * width / 2
	ny := dx / length * width / 2

	c.reset()
	c.z.MoveTo(float32(x0+nx), float32(y0+ny))
	c.z.LineTo(float32(x1+nx), float32(y1+ny))
	c.z.LineTo(float32(x1-nx), float32(y1-ny))
	c.z.LineTo(float32(x0-nx), float32(y0-ny))
	c.z.ClosePath()
	c.draw(col)
}

func (c *Canvas) reset() {
	b := c.img.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
}

func (c *Canvas) circle(cx, cy, r float64, reverse bool) {
	n := segments(r)
	for i := 0; i <= n; i++ {
		k := i
		if reverse {
			k = n - i
		}
		a := 2 * math.Pi * float64(k) / float64(n)
		x := float32(cx + r*math.Cos(a))
		y := float32(cy + r*math.Sin(a))
		if i == 0 {
			c.z.MoveTo(x, y)
		} else {
			c.z.LineTo(x, y)
		}
	}
	c.z.ClosePath()
}

func (c *Canvas) draw(col color.Color) {
	c.z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

// segments picks a polygon resolution fine enough that chords stay sub-pixel.
func segments(r float64) int {
	n := int(math.Ceil(2 * math.Pi * r / 2))
	if n < 24 {
		return 24
	}
	return n
}
