package cli

import (
	"fmt"

	"github.com/ashureev/odorcolor/internal/results"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// ListCmd returns the list command.
func (a *App) ListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored responses",
		Long: `List stored responses, oldest first, with a swatch per odor.

Examples:
  # List everything
  surveyctl list

  # Only the five most recent
  surveyctl list --limit 5
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			responses := repo.LoadResponses(cmd.Context())
			out := cmd.OutOrStdout()
			if len(responses) == 0 {
				fmt.Fprintln(out, "No responses stored.")
				return nil
			}
			total := len(responses)
			if limit > 0 && len(responses) > limit {
				responses = responses[len(responses)-limit:]
			}

			now := a.Now()
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("RECORDED", a.Labels[0], a.Labels[1], a.Labels[2]).
				StyleFunc(func(row, _ int) lipgloss.Style {
					if row == table.HeaderRow {
						return headerStyle
					}
					return cellStyle
				})
			for _, row := range results.Table(responses) {
				cells := []string{row.Timestamp}
				for _, c := range row.Cells {
					swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex)).Render("██")
					cells = append(cells, swatch+" "+c.Hex+" "+mutedStyle.Render(c.Summary))
				}
				t.Row(cells...)
			}
			fmt.Fprintln(out, t.Render())

			last := responses[len(responses)-1].Timestamp
			fmt.Fprintf(out, "%s responses, latest %s\n",
				humanize.Comma(int64(total)),
				humanize.RelTime(last, now, "ago", "from now"))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "show only the N most recent responses")
	return cmd
}
