package config

import (
	"path/filepath"
	"testing"
)

func TestLoadFromFile_CreatesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	c, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.Window.Scale != 2 {
		t.Fatalf("Window.Scale = %d, want 2 (default)", c.Window.Scale)
	}

	if _, err := LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile on existing file: %v", err)
	}
}

func TestLoadFromFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	c := New()
	c.Window.Scale = 4
	c.Window.Backend = "headless"
	if err := c.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if loaded.Window.Scale != 4 {
		t.Fatalf("Window.Scale = %d, want 4", loaded.Window.Scale)
	}
	if loaded.Window.Backend != "headless" {
		t.Fatalf("Window.Backend = %q, want headless", loaded.Window.Backend)
	}
	if !loaded.IsLoaded() {
		t.Fatalf("IsLoaded() should be true for a file that already existed")
	}
}

func TestValidate_RejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	c := New()
	c.Window.Backend = "sdl2"
	c.Window.Scale = 0
	if err := c.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if loaded.Window.Backend != "ebitengine" {
		t.Fatalf("Window.Backend = %q, want fallback ebitengine", loaded.Window.Backend)
	}
	if loaded.Window.Scale != 1 {
		t.Fatalf("Window.Scale = %d, want fallback 1", loaded.Window.Scale)
	}
}
