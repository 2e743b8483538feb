package tui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/javiermolinar/lorastack/internal/config"
	"github.com/javiermolinar/lorastack/internal/db"
	"github.com/javiermolinar/lorastack/internal/slot"
)

// FirstRun records the files created when the editor starts without them.
type FirstRun struct {
	ConfigPath  string
	WroteConfig bool
	DBPath      string
	CreatedDB   bool
}

// Message describes what was created, or "" when nothing was.
func (f FirstRun) Message() string {
	var created []string
	if f.WroteConfig {
		created = append(created, "config "+f.ConfigPath)
	}
	if f.CreatedDB {
		created = append(created, "database "+f.DBPath)
	}
	if len(created) == 0 {
		return ""
	}
	return "Created " + strings.Join(created, " and ")
}

// PrepareStorage writes the config to configPath if it does not exist yet and
// opens the configured database, creating its directory.
func PrepareStorage(cfg *config.Config, configPath string) (slot.Repository, FirstRun, error) {
	run := FirstRun{ConfigPath: configPath, DBPath: cfg.Storage.DBPath}

	if configPath != "" {
		missing, err := pathMissing(configPath)
		if err != nil {
			return nil, run, fmt.Errorf("checking config path: %w", err)
		}
		if missing {
			if err := cfg.SaveTo(configPath); err != nil {
				return nil, run, fmt.Errorf("saving config: %w", err)
			}
			run.WroteConfig = true
		}
	}

	dbMissing, err := pathMissing(run.DBPath)
	if err != nil {
		return nil, run, fmt.Errorf("checking db path: %w", err)
	}
	repo, err := OpenRepo(run.DBPath)
	if err != nil {
		return nil, run, err
	}
	run.CreatedDB = dbMissing
	return repo, run, nil
}

func pathMissing(path string) (bool, error) {
	if path == "" {
		return true, nil
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, fs.ErrNotExist):
		return true, nil
	default:
		return false, err
	}
}

// OpenRepo opens the stack database at dbPath, creating its directory.
func OpenRepo(dbPath string) (slot.Repository, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return repo, nil
}
