package wheel

import "github.com/ashureev/odorcolor/internal/domain"

// EventKind is the phase of a pointer gesture.
type EventKind string

const (
	Press   EventKind = "press"
	Move    EventKind = "move"
	Release EventKind = "release"
	Leave   EventKind = "leave"
)

// Source distinguishes mouse from single-touch input. Both are handled the same.
type Source string

const (
	Mouse Source = "mouse"
	Touch Source = "touch"
)

// PointerEvent is a pointer position relative to the canvas origin.
type PointerEvent struct {
	Kind   EventKind `json:"kind"`
	Source Source    `json:"source,omitempty"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
}

// Picker tracks a drag gesture over the wheel.
type Picker struct {
	geom     Geometry
	dragging bool
}

// NewPicker returns a picker for the geometry.
func NewPicker(g Geometry) *Picker {
	return &Picker{geom: g}
}

// Dragging reports whether a press is in progress.
func (p *Picker) Dragging() bool {
	return p.dragging
}

// Handle applies one event. It returns the new selection and true when the
// event changes it: on press, and on move while dragging.
func (p *Picker) Handle(ev PointerEvent) (domain.ColorSample, bool) {
	switch ev.Kind {
	case Press:
		p.dragging = true
		return p.geom.Pick(ev.X, ev.Y), true
	case Move:
		if !p.dragging {
			return domain.ColorSample{}, false
		}
		return p.geom.Pick(ev.X, ev.Y), true
	case Release, Leave:
		p.dragging = false
	}
	return domain.ColorSample{}, false
}
