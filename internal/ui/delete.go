package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored stack",
		Long: `Delete a stack from the database.

Asks for confirmation unless --yes is given.`,
		Example: `  lorastack delete portraits
  lorastack delete portraits --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			name := args[0]
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if !yes && !p.yesNo(fmt.Sprintf("Delete stack %q?", name)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := a.repo.DeleteStack(context.Background(), name); err != nil {
				return fmt.Errorf("deleting stack %q: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted stack %q\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
