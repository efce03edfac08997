package colorspace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidHex is returned by ParseHex for anything other than six hex digits.
var ErrInvalidHex = errors.New("invalid hex color")

// RGBToHex encodes c as a lowercase "#rrggbb" string.
func RGBToHex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex decodes "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

// HexToRGB is the lenient form of ParseHex: malformed input decodes to black.
func HexToRGB(s string) RGB {
	c, _ := ParseHex(s)
	return c
}

// HSVToHex converts HSV in [0,1] straight to "#rrggbb".
func HSVToHex(h, s, v float64) string {
	return RGBToHex(HSVToRGB(h, s, v))
}

// HexToHSV decodes a hex color into hue, saturation and value.
func HexToHSV(s string) (h, sat, v float64) {
	return RGBToHSV(HexToRGB(s))
}
