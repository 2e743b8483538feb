// Package tui provides the terminal user interface for lorastack.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/lorastack/internal/config"
	"github.com/javiermolinar/lorastack/internal/interact"
	"github.com/javiermolinar/lorastack/internal/layout"
	"github.com/javiermolinar/lorastack/internal/models"
	"github.com/javiermolinar/lorastack/internal/slot"
	"github.com/javiermolinar/lorastack/internal/tui/commands"
	"github.com/javiermolinar/lorastack/internal/tui/theme"
)

// DefaultStackName is the stack edited when no name is given.
const DefaultStackName = "default"

// Screen layout in terminal lines: the title, a blank line, then the list.
const (
	titleLines = 1
	listTop    = titleLines + 1
	footerH    = 2
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo      slot.Repository
	config    *config.Config
	stackName string

	// Slot list and its interaction controller
	store *slot.Store
	ctrl  *interact.Controller
	hit   layout.HitTester
	host  *popupHost
	names interact.NameSource
	now   func() time.Time

	// Theme and styles
	theme   *theme.Theme
	styles  *Styles
	overlay OverlayModel

	// State
	cursor     int        // Slot index; store.Len() selects the add row
	saved      *slot.List // List as last loaded or saved
	pending    *slot.List // List handed to the running save command
	loading    bool
	quitArmed  bool
	lastZone   layout.Zone // Zone of the last press, anchors the editor
	firstRun   FirstRun

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string    // Temporary status/error message
	statusTime time.Time // When to clear message

	// Error state
	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithFirstRun reports the files created at startup in the first status line.
func WithFirstRun(run FirstRun) ModelOption {
	return func(m *Model) {
		m.firstRun = run
	}
}

// WithStackName selects the stack to edit.
func WithStackName(name string) ModelOption {
	return func(m *Model) {
		if name != "" {
			m.stackName = name
		}
	}
}

// WithNames replaces the model-name source.
func WithNames(names interact.NameSource) ModelOption {
	return func(m *Model) {
		m.names = names
	}
}

// WithClock sets the clock used to timestamp pointer events.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// New creates a new TUI model editing one stack of repo.
func New(repo slot.Repository, cfg *config.Config, opts ...ModelOption) *Model {
	if cfg == nil {
		cfg = config.Default()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		LogError("theme", err)
	}
	styles := NewStyles(t)

	mode, err := slot.ParseMode(cfg.Layout.Mode)
	if err != nil {
		mode = slot.ModeSingle
	}
	store := slot.NewDefaultStore(mode)
	store.Subscribe(LogStoreChange)

	hit := layout.NewHitTester(layout.NewEngine(layout.CellMetrics()), layout.CellGeometry(listTop))
	host := newPopupHost(styles)

	overlay := NewOverlayModel()
	overlay.SetBackground(styles.PopupBgColor)

	m := &Model{
		repo:      repo,
		config:    cfg,
		stackName: DefaultStackName,
		store:     store,
		hit:       hit,
		host:      host,
		theme:     t,
		styles:    styles,
		overlay:   overlay,
		names:     models.FromConfig(cfg.Models),
		now:       time.Now,
		saved:     store.List(),
		loading:   repo != nil,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.ctrl = interact.New(store, hit, host, m.names, interact.Options{
		DragScale:         cfg.Interaction.DragScale,
		DragThreshold:     cfg.Interaction.DragThreshold,
		DoubleClickWindow: time.Duration(cfg.Interaction.DoubleClickMS) * time.Millisecond,
		ArrowStep:         cfg.Interaction.ArrowStep,
		Now:               m.now,
		Trace:             LogController,
	})
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.repo == nil {
		return nil
	}
	return commands.LoadStack(m.repo, m.stackName)
}

// Dirty reports whether the list changed since it was last loaded or saved.
func (m Model) Dirty() bool {
	return m.store.List() != m.saved
}

// Run starts the TUI.
func Run(repo slot.Repository, cfg *config.Config, stack string) error {
	return RunWithDebug(repo, cfg, stack, false)
}

// RunWithDebug starts the TUI with optional debug logging. A nil repo is
// opened from the configured database and closed on exit.
func RunWithDebug(repo slot.Repository, cfg *config.Config, stack string, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	if cfg == nil {
		cfg = config.Default()
	}

	var run FirstRun
	if repo == nil {
		opened, created, err := PrepareStorage(cfg, config.DefaultConfigPath())
		if err != nil {
			return err
		}
		defer func() { _ = opened.Close() }()
		repo, run = opened, created
	}

	model := New(repo, cfg, WithFirstRun(run), WithStackName(stack))
	defer model.ctrl.Close()

	p := tea.NewProgram(*model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
