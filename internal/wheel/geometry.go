// Package wheel renders the hue/saturation disc and maps pointer positions to
// colors and back. Pixels and pointers share one formula so a marker always
// lands where its reported color is drawn.
package wheel

import (
	"math"

	"github.com/ashureev/odorcolor/internal/domain"
)

const (
	DefaultSize   = 320
	DefaultMargin = 8
)

// Geometry describes a square canvas of side Size holding a disc inset by Margin.
type Geometry struct {
	Size   int
	Margin float64
}

// NewGeometry returns a geometry, substituting defaults for non-positive values.
func NewGeometry(size int, margin float64) Geometry {
	if size <= 0 {
		size = DefaultSize
	}
	if margin < 0 {
		margin = DefaultMargin
	}
	return Geometry{Size: size, Margin: margin}
}

// Center returns the canvas center coordinate (same on both axes).
func (g Geometry) Center() float64 {
	return float64(g.Size) / 2
}

// Radius returns the disc radius.
func (g Geometry) Radius() float64 {
	return float64(g.Size)/2 - g.Margin
}

// Polar returns hue in [0,1) and saturation in [0,1] for an offset from the
// center. Angles grow clockwise in screen space (y down).
func (g Geometry) Polar(dx, dy float64) (h, s float64) {
	r := g.Radius()
	dist := math.Min(math.Hypot(dx, dy), r)
	angle := math.Atan2(dy, dx)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	h = angle / (2 * math.Pi)
	if h >= 1 {
		h = 0
	}
	return h, math.Min(1, dist/r)
}

// Pick maps a pointer position relative to the canvas origin to a color.
// Positions outside the disc clamp to its edge.
func (g Geometry) Pick(x, y float64) domain.ColorSample {
	c := g.Center()
	h, s := g.Polar(x-c, y-c)
	return domain.NewColorSample(h, s)
}

// Marker returns where a sample sits on the canvas.
func (g Geometry) Marker(c domain.ColorSample) (x, y float64) {
	angle := c.H * 2 * math.Pi
	r := c.S * g.Radius()
	center := g.Center()
	return center + r*math.Cos(angle), center + r*math.Sin(angle)
}
