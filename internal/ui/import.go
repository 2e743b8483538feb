package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/lorastack/internal/persist"
	"github.com/javiermolinar/lorastack/internal/slot"
)

func (a *App) importCmd() *cobra.Command {
	var (
		nodeID int
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "import <name> <file>",
		Short: "Import a stack from a JSON file",
		Long: `Import a stack from a JSON file and store it under name.

The file may hold the structured form ({"mode": ..., "slots": [...]}) or a
flattened array of slots or model names. With --node, the file is read as a
workflow and the stack is taken from the widget values of that node.`,
		Example: `  lorastack import portraits stack.json
  lorastack import portraits workflow.json --node 12`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("stack name is empty")
			}

			path, err := resolvePath(args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			if !force {
				_, err := a.repo.GetStack(ctx, name)
				if err == nil {
					return fmt.Errorf("stack %q already exists (use --force to replace it)", name)
				}
				if !errors.Is(err, slot.ErrStackNotFound) {
					return fmt.Errorf("checking stack %q: %w", name, err)
				}
			}

			snap, err := importStack(ctx, a.repo, name, path, nodeID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d slots into %q from %s (%s)\n",
				len(snap.Records), name, path, snap.Shape)
			return nil
		},
	}

	cmd.Flags().IntVar(&nodeID, "node", 0, "Read the stack from this workflow node")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing stack")
	return cmd
}

// importStack reads path and stores its stack under name. A positive nodeID
// reads path as a workflow document.
func importStack(ctx context.Context, dest slot.Repository, name, path string, nodeID int) (persist.Snapshot, error) {
	snap, err := readSnapshotFile(path, nodeID)
	if err != nil {
		return persist.Snapshot{}, err
	}
	if err := saveStack(ctx, dest, name, snap); err != nil {
		return persist.Snapshot{}, err
	}
	return snap, nil
}

func readSnapshotFile(path string, nodeID int) (persist.Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return persist.Snapshot{}, fmt.Errorf("file does not exist: %s", path)
		}
		return persist.Snapshot{}, fmt.Errorf("checking file: %w", err)
	}
	if info.IsDir() {
		return persist.Snapshot{}, fmt.Errorf("path is a directory: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return persist.Snapshot{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var snap persist.Snapshot
	if nodeID > 0 {
		snap, err = persist.Extract(data, nodeID)
	} else {
		snap, err = persist.Load(data)
	}
	if err != nil {
		return persist.Snapshot{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return snap, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
