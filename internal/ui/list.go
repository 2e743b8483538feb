package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/lorastack/internal/slot"
)

func (a *App) listCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored stacks",
		Long: `List all stacks kept in the database, ordered by name.

Each row shows the stack mode, its number of slots and when it was last saved.`,
		Example: `  lorastack list
  lorastack list --no-color`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			stacks, err := a.repo.ListStacks(context.Background())
			if err != nil {
				return fmt.Errorf("listing stacks: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(stacks) == 0 {
				fmt.Fprintln(out, "No stacks saved yet. Run lorastack to create one.")
				return nil
			}

			fmt.Fprintln(out, renderStackTable(stacks, !noColor))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// renderStackTable renders one row per stack.
func renderStackTable(stacks []*slot.StoredStack, colored bool) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	countStyle := cellStyle.Align(lipgloss.Right)
	if colored {
		headerStyle = headerStyle.Foreground(lipgloss.Color("6"))
	}

	rows := make([][]string, 0, len(stacks))
	for _, st := range stacks {
		updated := "-"
		if !st.UpdatedAt.IsZero() {
			updated = st.UpdatedAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{st.Name, st.Mode.String(), strconv.Itoa(st.SlotCount), updated})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("STACK", "MODE", "SLOTS", "UPDATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return countStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}
