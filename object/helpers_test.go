package object

import (
	"errors"
	"testing"
)

func newTestSpace(t *testing.T, classes ...*Class) (*Registry, *Space) {
	t.Helper()
	reg := NewRegistry()
	for _, c := range classes {
		if err := reg.Register(c); err != nil {
			t.Fatalf("Failed to register %s: %v", c.Name, err)
		}
	}
	return reg, NewSpace(reg)
}

// expectFatal runs fn and requires it to abort with a fatal of kind.
func expectFatal(t *testing.T, kind Kind, fn func()) *Error {
	t.Helper()
	var err error
	func() {
		defer Recover(&err)
		fn()
	}()
	if err == nil {
		t.Fatalf("Expected fatal %s, got none", kind)
	}
	var f *Fatal
	if !errors.As(err, &f) {
		t.Fatalf("Expected *Fatal, got %T", err)
	}
	if f.Err.Kind != kind {
		t.Fatalf("Expected fatal %s, got %s", kind, f.Err)
	}
	return f.Err
}

func countDiags(s *Space, kind Kind) int {
	n := 0
	for _, d := range s.Diagnostics() {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
