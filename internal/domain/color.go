package domain

import (
	"encoding/json"

	"github.com/ashureev/odorcolor/internal/colorspace"
)

// ColorSample is one picked color. Hex always encodes (H, S, V) as of the
// last update; use the constructors rather than assigning fields directly.
type ColorSample struct {
	H   float64 `json:"h"`
	S   float64 `json:"s"`
	V   float64 `json:"v"`
	Hex string  `json:"hex"`
}

// NewColorSample returns a sample on the wheel plane (value fixed at 1).
func NewColorSample(h, s float64) ColorSample {
	return NewColorSampleHSV(h, s, 1)
}

// NewColorSampleHSV returns a sample with an explicit value component.
func NewColorSampleHSV(h, s, v float64) ColorSample {
	return ColorSample{H: h, S: s, V: v, Hex: colorspace.HSVToHex(h, s, v)}
}

// RGB returns the 8-bit encoding of the sample.
func (c ColorSample) RGB() colorspace.RGB {
	return colorspace.HSVToRGB(c.H, c.S, c.V)
}

// UnmarshalJSON defaults an omitted "v" to 1.
func (c *ColorSample) UnmarshalJSON(data []byte) error {
	var raw struct {
		H   float64  `json:"h"`
		S   float64  `json:"s"`
		V   *float64 `json:"v"`
		Hex string   `json:"hex"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := 1.0
	if raw.V != nil {
		v = *raw.V
	}
	*c = ColorSample{H: raw.H, S: raw.S, V: v, Hex: raw.Hex}
	if c.Hex == "" {
		c.Hex = colorspace.HSVToHex(c.H, c.S, c.V)
	}
	return nil
}
