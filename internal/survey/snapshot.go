package survey

import (
	"fmt"

	"github.com/ashureev/odorcolor/internal/domain"
	"github.com/ashureev/odorcolor/internal/wheel"
)

// DefaultLabels names the stimuli when no stimulus file is configured.
var DefaultLabels = [domain.SlotCount]string{"Odor A", "Odor B", "Odor C"}

// SlotView is one selection as the client renders it.
type SlotView struct {
	Label      string             `json:"label"`
	Color      domain.ColorSample `json:"color"`
	HueDeg     string             `json:"hue_deg"`
	SatPct     string             `json:"sat_pct"`
	ValPct     string             `json:"val_pct"`
	MarkerX    float64            `json:"marker_x"`
	MarkerY    float64            `json:"marker_y"`
	IsSelected bool               `json:"is_selected"`
}

// Snapshot is the render model for a flow.
type Snapshot struct {
	State    State      `json:"state"`
	Progress string     `json:"progress,omitempty"`
	Slots    []SlotView `json:"slots"`
}

// Snap builds the render model for f on the given wheel geometry.
func Snap(f *Flow, labels [domain.SlotCount]string, g wheel.Geometry) Snapshot {
	st := f.State()
	snap := Snapshot{State: st, Slots: make([]SlotView, 0, domain.SlotCount)}
	if st.Screen == Trial {
		snap.Progress = fmt.Sprintf("%d / %d", st.Slot+1, domain.SlotCount)
	}
	for i, c := range f.Colors() {
		x, y := g.Marker(c)
		snap.Slots = append(snap.Slots, SlotView{
			Label:      labels[i],
			Color:      c,
			HueDeg:     fmt.Sprintf("%.1f°", c.H*360),
			SatPct:     fmt.Sprintf("%.1f%%", c.S*100),
			ValPct:     fmt.Sprintf("%.1f%%", c.V*100),
			MarkerX:    x,
			MarkerY:    y,
			IsSelected: st.Screen == Trial && st.Slot == i,
		})
	}
	return snap
}
