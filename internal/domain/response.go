// Package domain contains core domain types for the odor-color survey.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// SlotCount is the number of stimuli rated in one survey pass.
const SlotCount = 3

// TimestampLayout is the ISO-8601 form responses are stamped with.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Response is one completed survey pass. It is created at submission time and
// never modified; responses have no id beyond their position in the collection.
type Response struct {
	Timestamp time.Time
	Colors    [SlotCount]ColorSample
}

// NewResponse stamps the given selections with now (in UTC).
func NewResponse(now time.Time, colors [SlotCount]ColorSample) Response {
	return Response{Timestamp: now.UTC(), Colors: colors}
}

// TimestampString formats the timestamp with TimestampLayout.
func (r Response) TimestampString() string {
	return r.Timestamp.UTC().Format(TimestampLayout)
}

type responseJSON struct {
	Timestamp string        `json:"timestamp"`
	Colors    []ColorSample `json:"colors"`
}

// MarshalJSON encodes {"timestamp": "...", "colors": [...]}.
func (r Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(responseJSON{
		Timestamp: r.TimestampString(),
		Colors:    r.Colors[:],
	})
}

// UnmarshalJSON requires exactly SlotCount colors.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw responseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ts, err := time.Parse(time.RFC3339Nano, raw.Timestamp)
	if err != nil {
		return fmt.Errorf("parse timestamp: %w", err)
	}
	if len(raw.Colors) != SlotCount {
		return fmt.Errorf("response has %d colors, want %d", len(raw.Colors), SlotCount)
	}
	r.Timestamp = ts.UTC()
	copy(r.Colors[:], raw.Colors)
	return nil
}

// DefaultSlots returns the selections a fresh pass starts with.
func DefaultSlots() [SlotCount]ColorSample {
	return [SlotCount]ColorSample{
		NewColorSample(0, 0.8),
		NewColorSample(0.33, 0.8),
		NewColorSample(0.66, 0.8),
	}
}
