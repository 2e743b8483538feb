// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Interaction InteractionConfig `toml:"interaction"`
	Layout      LayoutConfig      `toml:"layout"`
	Models      ModelsConfig      `toml:"models"`
	Storage     StorageConfig     `toml:"storage"`
	UI          UIConfig          `toml:"ui"`
}

// InteractionConfig holds pointer gesture settings.
type InteractionConfig struct {
	DragScale     float64 `toml:"drag_scale"`      // strength per pixel of drag
	DragThreshold float64 `toml:"drag_threshold"`  // pixels before a press becomes a drag
	DoubleClickMS int     `toml:"double_click_ms"` // e.g., 500
	ArrowStep     float64 `toml:"arrow_step"`      // e.g., 0.05
}

// LayoutConfig holds list display settings.
type LayoutConfig struct {
	Mode string `toml:"mode"` // "single" or "dual"
}

// ModelsConfig holds the model-name source settings.
type ModelsConfig struct {
	Names      []string `toml:"names"`      // explicit names, listed first
	Dir        string   `toml:"dir"`        // directory scanned for model files
	Extensions []string `toml:"extensions"` // e.g., [".safetensors", ".pt"]
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Interaction: InteractionConfig{
			DragScale:     0.01,
			DragThreshold: 2,
			DoubleClickMS: 500,
			ArrowStep:     0.05,
		},
		Layout: LayoutConfig{
			Mode: "single",
		},
		Models: ModelsConfig{
			Extensions: []string{".safetensors", ".pt", ".ckpt"},
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "lorastack.db"
	}
	return filepath.Join(home, ".local", "share", "lorastack", "lorastack.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "lorastack", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Models.Dir = expandPath(cfg.Models.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// envPrefix prefixes every environment override.
const envPrefix = "LORASTACK_"

// envBindings maps environment variables, without envPrefix, onto fields.
// Environment values take precedence over the config file.
var envBindings = []struct {
	key string
	set func(cfg *Config, v string) error
}{
	{"DRAG_SCALE", floatField(func(c *Config) *float64 { return &c.Interaction.DragScale })},
	{"DRAG_THRESHOLD", floatField(func(c *Config) *float64 { return &c.Interaction.DragThreshold })},
	{"DOUBLE_CLICK_MS", func(c *Config, v string) (err error) {
		c.Interaction.DoubleClickMS, err = strconv.Atoi(v)
		return err
	}},
	{"ARROW_STEP", floatField(func(c *Config) *float64 { return &c.Interaction.ArrowStep })},
	{"MODE", stringField(func(c *Config) *string { return &c.Layout.Mode })},
	{"MODELS_DIR", stringField(func(c *Config) *string { return &c.Models.Dir })},
	{"MODELS", func(c *Config, v string) error {
		c.Models.Names = strings.Split(v, ",")
		return nil
	}},
	{"DB_PATH", stringField(func(c *Config) *string { return &c.Storage.DBPath })},
	{"UI_THEME", stringField(func(c *Config) *string { return &c.UI.Theme })},
}

func applyEnvOverrides(cfg *Config) error {
	for _, b := range envBindings {
		key := envPrefix + b.key
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		if err := b.set(cfg, v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func floatField(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

func stringField(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Interaction.DragScale <= 0 {
		return errors.New("drag_scale must be positive")
	}
	if c.Interaction.DragThreshold < 0 {
		return errors.New("drag_threshold must not be negative")
	}
	if c.Interaction.DoubleClickMS <= 0 {
		return errors.New("double_click_ms must be positive")
	}
	if c.Interaction.ArrowStep <= 0 {
		return errors.New("arrow_step must be positive")
	}
	switch strings.ToLower(c.Layout.Mode) {
	case "", "single", "dual":
	default:
		return fmt.Errorf("invalid layout mode: %s", c.Layout.Mode)
	}
	for _, ext := range c.Models.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("model extension must start with a dot: %q", ext)
		}
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
