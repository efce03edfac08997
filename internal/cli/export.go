package cli

import (
	"fmt"

	"github.com/ashureev/odorcolor/internal/results"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// ExportCmd returns the export command.
func (a *App) ExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export responses as CSV",
		Long: `Export every stored response as CSV, one row per response.

Without --out the file is named odor-color-responses-YYYY-MM-DD.csv.
Use --out - to write to stdout.
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			responses := repo.LoadResponses(cmd.Context())
			body := []byte(results.CSV(responses))
			if out == "" {
				out = results.Filename(a.Now())
			}
			if err := writeOutput(cmd.OutOrStdout(), out, body); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d responses to %s (%s)\n",
					len(responses), out, humanize.Bytes(uint64(len(body))))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, or - for stdout")
	return cmd
}
