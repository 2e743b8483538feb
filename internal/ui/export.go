package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/lorastack/internal/persist"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

func (a *App) exportCmd() *cobra.Command {
	var (
		copyOut  bool
		output   string
		workflow string
		nodeID   int
	)

	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Export a stack as JSON",
		Long: `Write a stored stack in the structured JSON form.

By default the JSON is printed to stdout. With --workflow and --node, the
stack is embedded into the widget values of that node and the whole
workflow document is written instead.`,
		Example: `  lorastack export portraits > stack.json
  lorastack export portraits --copy
  lorastack export portraits --workflow workflow.json --node 12 -o out.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (workflow == "") != (nodeID == 0) {
				return fmt.Errorf("--workflow and --node must be used together")
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			_, snap, err := loadStack(context.Background(), a.repo, args[0])
			if err != nil {
				return err
			}

			var data []byte
			if workflow != "" {
				path, err := resolvePath(workflow)
				if err != nil {
					return err
				}
				data, err = embedStack(path, nodeID, snap)
				if err != nil {
					return err
				}
			} else {
				data, err = persist.SaveIndent(snap)
				if err != nil {
					return err
				}
			}

			switch {
			case copyOut:
				if err := writeClipboard(string(data)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Copied %q to clipboard\n", args[0])
			case output != "":
				path, err := resolvePath(output)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the JSON to the clipboard instead of printing it")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the JSON to a file")
	cmd.Flags().StringVar(&workflow, "workflow", "", "Workflow document to embed the stack into")
	cmd.Flags().IntVar(&nodeID, "node", 0, "Workflow node that receives the stack")
	return cmd
}

// embedStack returns the workflow at path with snap written into node nodeID.
func embedStack(path string, nodeID int, snap persist.Snapshot) ([]byte, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow: %w", err)
	}
	out, err := persist.Embed(doc, nodeID, snap)
	if err != nil {
		return nil, fmt.Errorf("embedding into %s: %w", path, err)
	}
	return out, nil
}
