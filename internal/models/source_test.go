package models

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/javiermolinar/lorastack/internal/config"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestModelNames_StaticOnly(t *testing.T) {
	src := NewSource([]string{"b.pt", "a.pt", "b.pt", " "}, "", nil)

	got := src.ModelNames()
	want := []string{"b.pt", "a.pt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ModelNames() = %v, want %v", got, want)
	}
}

func TestModelNames_Empty(t *testing.T) {
	got := NewSource(nil, "", nil).ModelNames()
	if len(got) != 1 || got[0] != PlaceholderEmpty {
		t.Errorf("ModelNames() = %v, want [%s]", got, PlaceholderEmpty)
	}
}

func TestModelNames_ScansDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "styleA.safetensors"))
	writeFile(t, filepath.Join(dir, "chars", "bob.safetensors"))
	writeFile(t, filepath.Join(dir, "chars", "alice.PT"))
	writeFile(t, filepath.Join(dir, "notes.txt"))
	writeFile(t, filepath.Join(dir, ".cache", "hidden.pt"))

	src := NewSource([]string{"remote.safetensors"}, dir, []string{".safetensors", ".pt"})
	got := src.ModelNames()
	want := []string{
		"remote.safetensors",
		"chars/alice.PT",
		"chars/bob.safetensors",
		"styleA.safetensors",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ModelNames() = %v, want %v", got, want)
	}
}

func TestModelNames_ReadsDirectoryEachCall(t *testing.T) {
	dir := t.TempDir()
	src := NewSource(nil, dir, []string{".pt"})

	if got := src.ModelNames(); got[0] != PlaceholderEmpty {
		t.Errorf("expected empty placeholder, got %v", got)
	}
	writeFile(t, filepath.Join(dir, "new.pt"))
	if got := src.ModelNames(); len(got) != 1 || got[0] != "new.pt" {
		t.Errorf("expected new file to appear, got %v", got)
	}
}

func TestModelNames_MissingDirectory(t *testing.T) {
	src := NewSource([]string{"a.pt"}, filepath.Join(t.TempDir(), "missing"), nil)

	got := src.ModelNames()
	want := []string{"a.pt", PlaceholderError}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ModelNames() = %v, want %v", got, want)
	}
	if _, err := src.List(); err == nil {
		t.Error("List should report the scan error")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default().Models
	cfg.Names = []string{"x.safetensors"}

	got := FromConfig(cfg).ModelNames()
	if len(got) != 1 || got[0] != "x.safetensors" {
		t.Errorf("ModelNames() = %v", got)
	}
}
