package results

import (
	"fmt"

	"github.com/ashureev/odorcolor/internal/domain"
)

// Cell is one slot of a table row.
type Cell struct {
	Hex     string  `json:"hex"`
	H       float64 `json:"h"`
	S       float64 `json:"s"`
	V       float64 `json:"v"`
	Summary string  `json:"summary"`
}

// Row is one response flattened for display.
type Row struct {
	Timestamp string                 `json:"timestamp"`
	Cells     [domain.SlotCount]Cell `json:"cells"`
}

// Table returns one row per response, in stored order.
func Table(responses []domain.Response) []Row {
	rows := make([]Row, 0, len(responses))
	for _, resp := range responses {
		row := Row{Timestamp: resp.TimestampString()}
		for i, c := range resp.Colors {
			row.Cells[i] = Cell{
				Hex:     c.Hex,
				H:       c.H,
				S:       c.S,
				V:       c.V,
				Summary: fmt.Sprintf("H %.1f°, S %.0f%%", c.H*360, c.S*100),
			}
		}
		rows = append(rows, row)
	}
	return rows
}
