package raster

import (
	"image"
	"image/color"
	"testing"
)

var black = color.NRGBA{A: 255}

func TestFillCircleCoversCenterOnly(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	NewCanvas(img).FillCircle(20, 20, 5, black)

	if a := img.NRGBAAt(20, 20).A; a < 250 {
		t.Errorf("center alpha = %d, want opaque", a)
	}
	if a := img.NRGBAAt(2, 2).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
}

func TestStrokeCircleLeavesHole(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	NewCanvas(img).StrokeCircle(20, 20, 10, 2, black)

	if a := img.NRGBAAt(20, 20).A; a != 0 {
		t.Errorf("center alpha = %d, want 0 inside ring", a)
	}
	if a := img.NRGBAAt(30, 20).A; a == 0 {
		t.Error("expected ring coverage at radius 10")
	}
}

func TestStrokeLine(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	NewCanvas(img).StrokeLine(0, 10, 20, 10, 2, black)

	if a := img.NRGBAAt(10, 10).A; a == 0 {
		t.Error("expected coverage on the line")
	}
	if a := img.NRGBAAt(10, 2).A; a != 0 {
		t.Errorf("alpha off the line = %d, want 0", a)
	}
}
