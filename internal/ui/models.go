package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/lorastack/internal/models"
)

func (a *App) modelsCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the model names offered in the editor",
		Long: `List the model names the editor offers in its selection menu.

Names come from [models] names in the config, followed by the files found
under [models] dir whose extension is listed in [models] extensions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			out := cmd.OutOrStdout()
			names, err := models.FromConfig(a.config.Models).List()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", formatWarn("warning:"), err)
			}
			if len(names) == 0 {
				fmt.Fprintln(out, "No models found. Set [models] names or dir in the config.")
				return nil
			}

			if dir := a.config.Models.Dir; dir != "" {
				fmt.Fprintf(out, "%s\n", formatMuted("dir: "+dir))
			}
			for _, name := range names {
				fmt.Fprintf(out, "  %s\n", formatModel(name))
			}
			fmt.Fprintf(out, "\nTotal: %d models\n", len(names))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
