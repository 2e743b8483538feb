package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) showCmd() *cobra.Command {
	var verbose bool
	var noColor bool
	var bar bool

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show the slots of a stack",
		Long: `Display the slots of a stored stack in order.

Without a name, shows the stack selected by --stack.`,
		Example: `  lorastack show
  lorastack show portraits --bar`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			name := a.stack
			if len(args) == 1 {
				name = args[0]
			}

			st, snap, err := loadStack(context.Background(), a.repo, name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "=== %s (%s) ===\n\n", formatHeader(st.Name), snap.Mode)

			opts := PrintOpts{Mode: snap.Mode, Verbose: verbose, ShowBar: bar}
			maxNameWidth := opts.CalcMaxNameWidth(40)

			for i, r := range snap.Records {
				PrintSlotRow(out, i, r, opts, maxNameWidth)
			}

			fmt.Fprintln(out)
			PrintStats(out, StackStats(snap))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full model names")
	cmd.Flags().BoolVar(&bar, "bar", false, "Show a strength bar per slot")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
