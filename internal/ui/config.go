package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/lorastack/internal/config"
	"github.com/javiermolinar/lorastack/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Show the configuration and optionally edit it field by field.

A missing config file is created with default values first. Press enter
to keep the value shown in brackets.`,
		Example: `  lorastack config
  lorastack config --file ./lorastack.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return editConfig(p, path)
		},
	}

	cmd.Flags().StringVar(&path, "file", config.DefaultConfigPath(), "Config file to edit")
	return cmd
}

func editConfig(p *prompter, path string) error {
	p.printf("Config file: %s\n\n", path)

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		p.printf("Created %s with default values\n\n", path)
	}

	if err := printConfig(p.out, cfg); err != nil {
		return err
	}
	if !p.yesNo("\nEdit the configuration?") {
		return nil
	}

	ia := &cfg.Interaction
	ia.DragScale = p.float("Drag scale (strength per cell)", ia.DragScale)
	ia.DragThreshold = p.float("Drag threshold (cells)", ia.DragThreshold)
	ia.DoubleClickMS = int(p.float("Double-click window (ms)", float64(ia.DoubleClickMS)))
	ia.ArrowStep = p.float("Arrow step", ia.ArrowStep)
	cfg.Layout.Mode = p.choice("Default mode", cfg.Layout.Mode, []string{"single", "dual"})
	cfg.Models.Dir = p.value("Models directory (empty to disable)", cfg.Models.Dir)
	cfg.Models.Names = p.list("Extra model names (comma-separated)", cfg.Models.Names)
	cfg.Models.Extensions = p.list("Model file extensions (comma-separated)", cfg.Models.Extensions)
	cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = p.choice("UI theme", cfg.UI.Theme, theme.Available())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	p.printf("\nSaved %s\n", path)
	return nil
}

// printConfig writes cfg in the same TOML form it is saved in.
func printConfig(w io.Writer, cfg *config.Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprintln(w, formatHeader("Current configuration:"))
	_, err = w.Write(data)
	return err
}

// prompter reads answers line by line. At end of input every prompt keeps
// its current value.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// line reads one trimmed line; ok is false at end of input.
func (p *prompter) line() (string, bool) {
	s, err := p.in.ReadString('\n')
	return strings.TrimSpace(s), err == nil || s != ""
}

func (p *prompter) yesNo(question string) bool {
	p.printf("%s [y/N]: ", question)
	answer, _ := p.line()
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

func (p *prompter) value(label, current string) string {
	if current == "" {
		p.printf("  %s: ", label)
	} else {
		p.printf("  %s [%s]: ", label, current)
	}
	answer, _ := p.line()
	if answer == "" {
		return current
	}
	return answer
}

func (p *prompter) float(label string, current float64) float64 {
	for {
		p.printf("  %s [%s]: ", label, strconv.FormatFloat(current, 'g', -1, 64))
		answer, ok := p.line()
		if answer == "" {
			return current
		}
		if f, err := strconv.ParseFloat(answer, 64); err == nil {
			return f
		}
		p.printf("  Invalid number %q\n", answer)
		if !ok {
			return current
		}
	}
}

func (p *prompter) choice(label, current string, options []string) string {
	label = fmt.Sprintf("%s (%s)", label, strings.Join(options, ", "))
	for {
		answer := strings.ToLower(p.value(label, current))
		if answer == strings.ToLower(current) {
			return current
		}
		for _, opt := range options {
			if answer == opt {
				return opt
			}
		}
		p.printf("  Invalid choice %q\n", answer)
		if _, err := p.in.Peek(1); err != nil {
			return current
		}
	}
}

func (p *prompter) list(label string, current []string) []string {
	answer := p.value(label, strings.Join(current, ", "))
	if answer == strings.Join(current, ", ") {
		return current
	}
	var out []string
	for _, part := range strings.Split(answer, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
