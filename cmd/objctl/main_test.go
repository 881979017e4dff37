package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/dynobj/object"
	"github.com/chazu/dynobj/store"
)

func seedStore(t *testing.T) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "objects.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	reg := object.NewRegistry()
	reg.MustRegister(object.NewClass("Point", nil).DeclareProp("x", object.Public, object.Int(7)))
	key, err := s.SaveObject(object.NewSpace(reg).New("Point"))
	if err != nil {
		t.Fatalf("SaveObject failed: %v", err)
	}
	return path, key
}

func TestCommands(t *testing.T) {
	path, key := seedStore(t)
	dir := t.TempDir()

	var out, errOut bytes.Buffer
	if code := run([]string{"-C", dir, "-db", path, "list"}, &out, &errOut); code != 0 {
		t.Fatalf("list exited %d: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), key) || !strings.Contains(out.String(), "Point") {
		t.Errorf("list output missing snapshot:\n%s", out.String())
	}

	out.Reset()
	if code := run([]string{"-C", dir, "-db", path, "list", "nothing"}, &out, &errOut); code != 0 {
		t.Fatalf("list by class exited %d", code)
	}
	if strings.Contains(out.String(), key) {
		t.Errorf("Expected class filter to hide %s", key)
	}

	out.Reset()
	if code := run([]string{"-C", dir, "-db", path, "dump", key}, &out, &errOut); code != 0 {
		t.Fatalf("dump exited %d: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "#1 Point") || !strings.Contains(out.String(), "x: 7") {
		t.Errorf("unexpected dump:\n%s", out.String())
	}

	if code := run([]string{"-C", dir, "-db", path, "delete", key}, &out, &errOut); code != 0 {
		t.Fatalf("delete exited %d: %s", code, errOut.String())
	}
	errOut.Reset()
	if code := run([]string{"-C", dir, "-db", path, "dump", key}, &out, &errOut); code != 1 {
		t.Errorf("dump of deleted key exited %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "no snapshot") {
		t.Errorf("unexpected error output: %s", errOut.String())
	}
}

func TestUsageErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run(nil, &out, &errOut); code != 2 {
		t.Errorf("no command exited %d, want 2", code)
	}
	path, _ := seedStore(t)
	if code := run([]string{"-C", t.TempDir(), "-db", path, "frobnicate"}, &out, &errOut); code != 2 {
		t.Errorf("unknown command exited %d, want 2", code)
	}
	if code := run([]string{"-C", t.TempDir(), "-db", path, "dump"}, &out, &errOut); code != 1 {
		t.Errorf("dump without key exited %d, want 1", code)
	}
}
