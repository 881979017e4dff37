package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/dynobj/object"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[runtime]
warn-undefined = false
strict-visibility = false

[log]
verbosity = 2
file = "dynobj.log"

[store]
path = "snapshots.db"

[fiber]
max-concurrent = 3
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Runtime.WarnUndefined {
		t.Error("warn-undefined = true, want false")
	}
	if c.Runtime.StrictVisibility {
		t.Error("strict-visibility = true, want false")
	}
	if c.Log.Verbosity != 2 {
		t.Errorf("log verbosity = %d, want 2", c.Log.Verbosity)
	}
	if c.Log.File != "dynobj.log" {
		t.Errorf("log file = %q, want dynobj.log", c.Log.File)
	}
	if c.Fiber.MaxConcurrent != 3 {
		t.Errorf("max-concurrent = %d, want 3", c.Fiber.MaxConcurrent)
	}
	if got, want := c.StorePath(), filepath.Join(c.Dir, "snapshots.db"); got != want {
		t.Errorf("store path = %q, want %q", got, want)
	}
	if lc := c.Logging(); lc.Verbosity != 2 || lc.File != "dynobj.log" {
		t.Errorf("logging config = %+v", lc)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[log]
verbosity = 1
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !c.Runtime.WarnUndefined || !c.Runtime.StrictVisibility {
		t.Error("Expected runtime defaults kept")
	}
	if c.Store.Path != "objects.db" {
		t.Errorf("store path = %q, want objects.db", c.Store.Path)
	}
	if c.Fiber.MaxConcurrent != 8 {
		t.Errorf("max-concurrent = %d, want 8", c.Fiber.MaxConcurrent)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil || !strings.Contains(err.Error(), "cannot read") {
		t.Errorf("Expected read error, got %v", err)
	}

	dir := t.TempDir()
	writeConfig(t, dir, "[runtime\n")
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Errorf("Expected parse error, got %v", err)
	}

	dir = t.TempDir()
	writeConfig(t, dir, "[fiber]\nmax-concurrent = 0\n")
	if _, err := Load(dir); err == nil {
		t.Error("Expected max-concurrent validation error")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[store]\npath = \"found.db\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c.Store.Path != "found.db" {
		t.Errorf("store path = %q, want found.db", c.Store.Path)
	}
	if c.StorePath() != filepath.Join(c.Dir, "found.db") {
		t.Errorf("Expected store path resolved against %s, got %s", c.Dir, c.StorePath())
	}
}

func TestSpaceOptions(t *testing.T) {
	c := Default()
	c.Runtime.WarnUndefined = false

	reg := object.NewRegistry()
	sp := object.NewSpace(reg, c.SpaceOptions()...)
	std, _ := reg.Lookup(object.StdClass)
	sp.Create(std).GetPublic("missing", true)
	if n := len(sp.Diagnostics()); n != 0 {
		t.Errorf("Expected warn-undefined=false to suppress diagnostics, got %d", n)
	}
}
