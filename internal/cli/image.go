package cli

import (
	"fmt"

	"github.com/ashureev/odorcolor/internal/results"
	"github.com/ashureev/odorcolor/internal/wheel"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// imageGeometry applies the same bounds as the server config: the disc needs
// a positive radius.
func imageGeometry(size int, margin float64) (wheel.Geometry, error) {
	if margin < 0 {
		return wheel.Geometry{}, fmt.Errorf("--margin must be non-negative, got %g", margin)
	}
	if float64(size) <= 2*margin {
		return wheel.Geometry{}, fmt.Errorf("--size %d must exceed twice --margin %g", size, margin)
	}
	return wheel.NewGeometry(size, margin), nil
}

// PlotCmd returns the plot command.
func (a *App) PlotCmd() *cobra.Command {
	var (
		out    string
		size   int
		margin float64
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render every stored selection on the color wheel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := imageGeometry(size, margin)
			if err != nil {
				return err
			}
			repo, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			responses := repo.LoadResponses(cmd.Context())
			data, err := results.PlotPNG(g, responses)
			if err != nil {
				return fmt.Errorf("failed to render plot: %w", err)
			}
			if err := writeOutput(cmd.OutOrStdout(), out, data); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Plotted %d responses to %s (%s)\n",
					len(responses), out, humanize.Bytes(uint64(len(data))))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "odor-color-plot.png", "output file, or - for stdout")
	cmd.Flags().IntVar(&size, "size", results.DefaultPlotSize, "image size in pixels")
	cmd.Flags().Float64Var(&margin, "margin", wheel.DefaultMargin, "margin around the disc in pixels")
	return cmd
}

// WheelCmd returns the wheel command.
func (a *App) WheelCmd() *cobra.Command {
	var (
		out    string
		size   int
		margin float64
	)

	cmd := &cobra.Command{
		Use:   "wheel",
		Short: "Render the picker wheel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := imageGeometry(size, margin)
			if err != nil {
				return err
			}
			data, err := wheel.NewRenderer(g).PNG()
			if err != nil {
				return fmt.Errorf("failed to render wheel: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), out, data)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "odor-color-wheel.png", "output file, or - for stdout")
	cmd.Flags().IntVar(&size, "size", wheel.DefaultSize, "image size in pixels")
	cmd.Flags().Float64Var(&margin, "margin", wheel.DefaultMargin, "margin around the disc in pixels")
	return cmd
}
