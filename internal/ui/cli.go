package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/lorastack/internal/config"
	"github.com/javiermolinar/lorastack/internal/slot"
	"github.com/javiermolinar/lorastack/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo     slot.Repository
	ownsRepo bool // repo was opened by ensureRepo and is closed by Close
	config   *config.Config
	root     *cobra.Command
	stack    string // Stack edited by the TUI
	debug    bool   // Enable debug logging
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repo is opened from the configured database path on first use.
func NewApp(repo slot.Repository, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{repo: repo, config: cfg}

	a.root = &cobra.Command{
		Use:   "lorastack",
		Short: "A terminal editor for LoRA stacks",
		Long: `Lorastack edits ordered stacks of LoRA models with per-slot strengths.

Run without a subcommand to open the interactive editor. Stacks are kept
by name in a local database and can be exported as JSON or embedded into
a workflow file.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.RunWithDebug(a.repo, a.config, a.stack, a.debug)
		},
	}

	// Add global flags
	a.root.PersistentFlags().StringVar(&a.stack, "stack", tui.DefaultStackName, "Stack to edit")
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to temp file)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.planCmd())
	a.root.AddCommand(a.modelsCmd())
	a.root.AddCommand(a.deleteCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lorastack %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// SetArgs overrides the command-line arguments, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// Close releases the repository if the app opened it.
func (a *App) Close() error {
	if !a.ownsRepo || a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo = nil
	a.ownsRepo = false
	return err
}

// ensureRepo opens the configured database when no repository was injected.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	repo, err := tui.OpenRepo(a.config.Storage.DBPath)
	if err != nil {
		return err
	}
	a.repo = repo
	a.ownsRepo = true
	return nil
}
