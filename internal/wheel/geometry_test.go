package wheel

import (
	"math"
	"testing"
)

func TestPickEdgeAndCenter(t *testing.T) {
	g := NewGeometry(320, 8)
	c, r := g.Center(), g.Radius()

	edge := g.Pick(c+r, c)
	if edge.S != 1 {
		t.Errorf("saturation at edge = %v, want 1", edge.S)
	}
	if edge.H != 0 || edge.Hex != "#ff0000" {
		t.Errorf("edge at 0° = h %v hex %q, want 0 #ff0000", edge.H, edge.Hex)
	}

	center := g.Pick(c, c)
	if center.S != 0 {
		t.Errorf("saturation at center = %v, want 0", center.S)
	}
	if center.Hex != "#ffffff" {
		t.Errorf("center hex = %q, want #ffffff", center.Hex)
	}
}

func TestPickClampsOutsideDisc(t *testing.T) {
	g := NewGeometry(320, 8)
	c := g.Center()

	got := g.Pick(c, c+1000)
	if got.S != 1 {
		t.Errorf("saturation = %v, want 1", got.S)
	}
	// Straight down is a quarter turn clockwise in screen space.
	if math.Abs(got.H-0.25) > 1e-12 {
		t.Errorf("hue = %v, want 0.25", got.H)
	}
}

func TestPickMarkerRoundTrip(t *testing.T) {
	g := NewGeometry(320, 8)
	c, r := g.Center(), g.Radius()

	for a := 0; a < 360; a += 13 {
		for _, frac := range []float64{0.1, 0.5, 0.93, 1} {
			rad := float64(a) * math.Pi / 180
			px := c + frac*r*math.Cos(rad)
			py := c + frac*r*math.Sin(rad)

			mx, my := g.Marker(g.Pick(px, py))
			if math.Abs(mx-px) > 1e-6 || math.Abs(my-py) > 1e-6 {
				t.Fatalf("angle %d frac %v: marker (%v,%v), picked at (%v,%v)", a, frac, mx, my, px, py)
			}
		}
	}
}

func TestNewGeometryDefaults(t *testing.T) {
	g := NewGeometry(0, -1)
	if g.Size != DefaultSize || g.Margin != DefaultMargin {
		t.Errorf("got %+v, want defaults", g)
	}
	if g.Radius() != 152 {
		t.Errorf("Radius = %v, want 152", g.Radius())
	}
}
