// Package models supplies the model names offered by the selection menu.
package models

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/javiermolinar/lorastack/internal/config"
)

// Status placeholders returned instead of names. They are shown in menus but
// cannot be selected.
const (
	PlaceholderEmpty = "(no models found)"
	PlaceholderError = "(error loading models)"
)

// Source lists model names from an explicit list and an optional directory.
// Every call to ModelNames reads the directory again; nothing is cached.
type Source struct {
	names      []string
	dir        string
	extensions []string
}

// NewSource creates a source. Names are listed first, in the given order,
// followed by the files under dir whose extension is in extensions.
func NewSource(names []string, dir string, extensions []string) *Source {
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		exts = append(exts, strings.ToLower(e))
	}
	return &Source{
		names:      append([]string(nil), names...),
		dir:        dir,
		extensions: exts,
	}
}

// FromConfig creates a source from the [models] config section.
func FromConfig(cfg config.ModelsConfig) *Source {
	return NewSource(cfg.Names, cfg.Dir, cfg.Extensions)
}

// ModelNames returns a fresh snapshot of the available names. Files are named
// by their slash-separated path relative to the directory, so subdirectories
// become menu folders.
func (s *Source) ModelNames() []string {
	names, err := s.List()
	if err != nil {
		return append(names, PlaceholderError)
	}
	if len(names) == 0 {
		return []string{PlaceholderEmpty}
	}
	return names
}

// List returns the available names and the first error hit while scanning
// the directory. Names found before the error are still returned.
func (s *Source) List() ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	for _, n := range s.names {
		add(n)
	}
	if s.dir == "" {
		return out, nil
	}

	files, err := s.scan()
	for _, f := range files {
		add(f)
	}
	return out, err
}

func (s *Source) scan() ([]string, error) {
	info, err := os.Stat(s.dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New(s.dir + " is not a directory")
	}

	var files []string
	err = filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.matches(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(files)
	return files, err
}

func (s *Source) matches(name string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range s.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
