// Package colorspace converts between HSV, RGB and hex color representations.
package colorspace

import (
	"image/color"
	"math"
)

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// NRGBA returns the color with the given alpha for use with the image package.
func (c RGB) NRGBA(alpha uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

// HSVToRGB converts hue, saturation and value in [0,1] to 8-bit RGB.
// The hue sector is floor(h*6) mod 6, so h=1 wraps to red.
func HSVToRGB(h, s, v float64) RGB {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch (int(i)%6 + 6) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return RGB{R: toByte(r), G: toByte(g), B: toByte(b)}
}

// RGBToHSV converts an 8-bit color back to hue, saturation and value in [0,1].
// A gray (zero chroma) reports hue 0.
func RGBToHSV(c RGB) (h, s, v float64) {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))
	d := maxVal - minVal

	switch {
	case d == 0:
		h = 0
	case maxVal == r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
		h /= 6
	case maxVal == g:
		h = ((b-r)/d + 2) / 6
	default:
		h = ((r-g)/d + 4) / 6
	}

	if maxVal != 0 {
		s = d / maxVal
	}
	return h, s, maxVal
}

func toByte(x float64) uint8 {
	n := math.Round(x * 255)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}
