package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ClearCmd returns the clear command.
func (a *App) ClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored response",
		Long: `Irreversibly delete the whole response collection.

Asks for confirmation unless --yes is given.
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			n := len(repo.LoadResponses(cmd.Context()))
			if !yes {
				ok, err := a.Confirm(
					fmt.Sprintf("Delete all %d stored responses?", n),
					"This cannot be undone.",
				)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted, nothing deleted.")
					return nil
				}
			}

			if err := repo.ClearResponses(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear responses: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d responses.\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
