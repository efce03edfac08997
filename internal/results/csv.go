package results

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ashureev/odorcolor/internal/domain"
)

// Header returns the fixed CSV header.
func Header() []string {
	header := []string{"timestamp"}
	for i := 1; i <= domain.SlotCount; i++ {
		p := fmt.Sprintf("odor%d_", i)
		header = append(header, p+"hex", p+"h", p+"s", p+"v")
	}
	return header
}

// CSV renders the header plus one line per response. Fields are never quoted
// (no value contains a comma) and there is no trailing newline.
func CSV(responses []domain.Response) string {
	lines := make([]string, 0, len(responses)+1)
	lines = append(lines, strings.Join(Header(), ","))
	for _, resp := range responses {
		fields := []string{resp.TimestampString()}
		for _, c := range resp.Colors {
			fields = append(fields, c.Hex, decimal(c.H), decimal(c.S), decimal(c.V))
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

func decimal(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// Filename is the download name for an export made at now.
func Filename(now time.Time) string {
	return "odor-color-responses-" + now.UTC().Format("2006-01-02") + ".csv"
}
