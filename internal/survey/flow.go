// Package survey sequences the screens of one survey pass and holds the
// in-progress selections.
package survey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ashureev/odorcolor/internal/domain"
	"github.com/google/uuid"
)

// ErrInvalidTransition is returned when the current screen does not accept an action.
var ErrInvalidTransition = errors.New("invalid transition")

// Screen identifies which page of the survey is showing.
type Screen int

const (
	Welcome Screen = iota
	Trial
	Review
	Done
	Results
)

var screenNames = map[Screen]string{
	Welcome: "welcome",
	Trial:   "trial",
	Review:  "review",
	Done:    "done",
	Results: "results",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

// MarshalText encodes the screen by name.
func (s Screen) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a screen name.
func (s *Screen) UnmarshalText(text []byte) error {
	for screen, name := range screenNames {
		if name == string(text) {
			*s = screen
			return nil
		}
	}
	return fmt.Errorf("unknown screen %q", text)
}

// State is the explicit screen value: the screen plus the slot being edited.
// Slot is meaningful on Trial and remembered across Review.
type State struct {
	Screen Screen `json:"screen"`
	Slot   int    `json:"slot"`
}

// Submitter persists a finished response. Implementations must save locally
// before returning; any remote delivery is their own detached concern.
type Submitter interface {
	Submit(ctx context.Context, resp domain.Response) error
}

// Flow is the state machine for one survey tab. It is not safe for concurrent
// use; the Registry serializes access.
type Flow struct {
	state  State
	colors [domain.SlotCount]domain.ColorSample
	passID string
}

// NewFlow returns a flow on the welcome screen with default selections.
func NewFlow() *Flow {
	return &Flow{colors: domain.DefaultSlots()}
}

// State returns the current screen state.
func (f *Flow) State() State {
	return f.state
}

// Colors returns a copy of the three selections.
func (f *Flow) Colors() [domain.SlotCount]domain.ColorSample {
	return f.colors
}

// Current returns the selection for the current slot.
func (f *Flow) Current() domain.ColorSample {
	return f.colors[f.state.Slot]
}

// PassID identifies the current pass in logs. Empty before the first Start.
func (f *Flow) PassID() string {
	return f.passID
}

func (f *Flow) invalid(action string) error {
	return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, action, f.state.Screen)
}

// Start begins a fresh pass: welcome → trial(0), selections reset.
func (f *Flow) Start() error {
	if f.state.Screen != Welcome {
		return f.invalid("start")
	}
	f.colors = domain.DefaultSlots()
	f.passID = uuid.NewString()
	f.state = State{Screen: Trial, Slot: 0}
	return nil
}

// Next advances trial(i) → trial(i+1), and the last trial → review.
func (f *Flow) Next() error {
	if f.state.Screen != Trial {
		return f.invalid("next")
	}
	if f.state.Slot < domain.SlotCount-1 {
		f.state.Slot++
		return nil
	}
	f.state.Screen = Review
	return nil
}

// Back steps trial(i) → trial(i-1), trial(0) → welcome, review → trial(slot).
func (f *Flow) Back() error {
	switch f.state.Screen {
	case Trial:
		if f.state.Slot > 0 {
			f.state.Slot--
			return nil
		}
		f.state = State{Screen: Welcome}
		return nil
	case Review:
		f.state.Screen = Trial
		return nil
	default:
		return f.invalid("back")
	}
}

// Edit reopens slot i from review without touching the other slots.
func (f *Flow) Edit(slot int) error {
	if f.state.Screen != Review {
		return f.invalid("edit")
	}
	if slot < 0 || slot >= domain.SlotCount {
		return fmt.Errorf("%w: slot %d out of range", ErrInvalidTransition, slot)
	}
	f.state = State{Screen: Trial, Slot: slot}
	return nil
}

// Pick replaces the current slot's selection.
func (f *Flow) Pick(sample domain.ColorSample) error {
	if f.state.Screen != Trial {
		return f.invalid("pick")
	}
	f.colors[f.state.Slot] = domain.NewColorSampleHSV(sample.H, sample.S, sample.V)
	return nil
}

// Submit records the pass and moves review → done. If the submitter fails the
// flow stays on review so the subject can retry.
func (f *Flow) Submit(ctx context.Context, sub Submitter, now time.Time) (domain.Response, error) {
	if f.state.Screen != Review {
		return domain.Response{}, f.invalid("submit")
	}
	resp := domain.NewResponse(now, f.colors)
	if err := sub.Submit(ctx, resp); err != nil {
		return domain.Response{}, fmt.Errorf("submit response: %w", err)
	}
	slog.Info("Survey pass submitted", "pass_id", f.passID)
	f.state = State{Screen: Done, Slot: f.state.Slot}
	return resp, nil
}

// ViewResults jumps to the results screen from anywhere.
func (f *Flow) ViewResults() {
	f.state.Screen = Results
}

// Home returns to welcome from done or results.
func (f *Flow) Home() error {
	switch f.state.Screen {
	case Done, Results, Welcome:
		f.state = State{Screen: Welcome}
		return nil
	default:
		return f.invalid("home")
	}
}
