package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/lorastack/internal/apply"
	"github.com/javiermolinar/lorastack/internal/persist"
)

func (a *App) planCmd() *cobra.Command {
	var inputsFile string

	cmd := &cobra.Command{
		Use:   "plan [name]",
		Short: "Show the LoRAs a stack applies, in order",
		Long: `Resolve a stack into the ordered list of LoRAs a loader would apply.

Slots are applied in label order (slot_1, slot_2, ...). Slots that are
switched off or select no model are skipped. The model strength comes from
the primary value; the clip strength is the secondary value in dual mode
and the primary value otherwise.

With --inputs, the plan is resolved from a JSON object of keyed node
inputs ("slot_1", "lora_2", ...) instead of a stored stack.`,
		Example: `  lorastack plan portraits
  lorastack plan --inputs inputs.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if inputsFile != "" {
				path, err := resolvePath(inputsFile)
				if err != nil {
					return err
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading inputs: %w", err)
				}
				steps, err := apply.ResolveJSON(data)
				if err != nil {
					return err
				}
				displayPlan(out, path, steps, -1)
				return nil
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			name := a.stack
			if len(args) == 1 {
				name = args[0]
			}
			_, snap, err := loadStack(context.Background(), a.repo, name)
			if err != nil {
				return err
			}
			steps, err := apply.Resolve(persist.Inputs(snap))
			if err != nil {
				return err
			}
			displayPlan(out, name, steps, len(snap.Records))
			return nil
		},
	}

	cmd.Flags().StringVar(&inputsFile, "inputs", "", "Resolve keyed inputs from a JSON file")
	return cmd
}

// displayPlan prints the resolved steps. total is the number of slots the
// plan was resolved from, or negative when unknown.
func displayPlan(w io.Writer, source string, steps []apply.Step, total int) {
	fmt.Fprintf(w, "Apply plan for %s:\n", formatHeader(source))
	if len(steps) == 0 {
		fmt.Fprintln(w, "\nNo LoRAs to apply.")
		return
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	displaySteps(w, steps)
	fmt.Fprintln(w, strings.Repeat("-", 60))

	fmt.Fprintf(w, "Total: %d LoRAs", len(steps))
	if skipped := total - len(steps); total >= 0 && skipped > 0 {
		fmt.Fprintf(w, " (%s)", formatMuted(fmt.Sprintf("%d skipped", skipped)))
	}
	fmt.Fprintln(w)
}

func displaySteps(w io.Writer, steps []apply.Step) {
	for i, s := range steps {
		fmt.Fprintf(w, "  %2d. %-8s %s  model %s  clip %s\n",
			i+1,
			s.Label,
			formatModel(s.Model),
			formatStrength(FormatStrength(s.StrengthModel)),
			formatStrength(FormatStrength(s.StrengthClip)),
		)
	}
}
