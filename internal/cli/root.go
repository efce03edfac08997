// Package cli implements surveyctl, the operator tool for stored survey
// responses.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ashureev/odorcolor/internal/config"
	"github.com/ashureev/odorcolor/internal/domain"
	"github.com/ashureev/odorcolor/internal/store"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// Confirmer asks the operator a yes/no question.
type Confirmer func(title, description string) (bool, error)

// App carries the collaborators shared by every command.
type App struct {
	Store   config.StoreConfig
	Labels  [domain.SlotCount]string
	Confirm Confirmer
	Now     func() time.Time
}

// NewApp returns an App configured from the environment.
func NewApp() (*App, error) {
	labels, err := config.LabelsFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load stimuli: %w", err)
	}
	return &App{
		Store:   config.StoreFromEnv(),
		Labels:  labels,
		Confirm: huhConfirm,
		Now:     time.Now,
	}, nil
}

func huhConfirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return ok, nil
}

func (a *App) open() (store.Repository, error) {
	repo, err := store.Open(a.Store.Driver, a.Store.Path, a.Store.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return repo, nil
}

// RootCmd builds the command tree.
func (a *App) RootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "surveyctl",
		Short: "Inspect and manage Odor → Color survey responses",
		Long: `Operator tool for the Odor → Color survey.

Reads the same store as the server (STORE_DRIVER, DB_PATH, STORE_KEY),
unless overridden with flags.

Examples:
  # Show every stored response
  surveyctl list

  # Export to odor-color-responses-<date>.csv
  surveyctl export

  # Render the aggregate plot
  surveyctl plot --out plot.png`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.Store.Driver, "driver", a.Store.Driver, "store driver (sqlite or file)")
	flags.StringVar(&a.Store.Path, "db", a.Store.Path, "sqlite database file, or directory for the file driver")
	flags.StringVar(&a.Store.Key, "key", a.Store.Key, "collection key")

	rootCmd.AddCommand(
		a.ListCmd(),
		a.ExportCmd(),
		a.ClearCmd(),
		a.PlotCmd(),
		a.WheelCmd(),
	)
	return rootCmd
}

// writeOutput writes data to path, or to w when path is "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
