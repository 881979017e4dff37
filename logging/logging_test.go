package logging

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"", 0, false},
		{"debug", 2, true},
		{" INFO ", 1, true},
		{"notice", 0, true},
		{"warning", -1, true},
		{"warn", -1, true},
		{"error", -2, true},
		{"off", -4, true},
		{"3", 3, true},
		{"loud", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseLevel(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %d, %v; want %d, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFile, "/tmp/dynobj.log")

	cfg := Config{Verbosity: 0}
	applyEnvOverrides(&cfg)
	if cfg.Verbosity != 2 {
		t.Errorf("Expected verbosity 2, got %d", cfg.Verbosity)
	}
	if cfg.File != "/tmp/dynobj.log" {
		t.Errorf("Expected log file override, got %q", cfg.File)
	}
}

func TestEnvOverridesIgnoreGarbage(t *testing.T) {
	t.Setenv(EnvLogLevel, "sometimes")
	t.Setenv(EnvLogFile, "")

	cfg := Config{Verbosity: 1, File: "keep.log"}
	applyEnvOverrides(&cfg)
	if cfg.Verbosity != 1 || cfg.File != "keep.log" {
		t.Errorf("Expected config unchanged, got %+v", cfg)
	}
}

func TestGetNames(t *testing.T) {
	if Get("object") == nil {
		t.Fatal("Expected a logger")
	}
	if Get("") == nil {
		t.Fatal("Expected the root logger")
	}
}
