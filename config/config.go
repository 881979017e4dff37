// Package config handles dynobj.toml runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chazu/dynobj/logging"
	"github.com/chazu/dynobj/object"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "dynobj.toml"

// Config represents a dynobj.toml file.
type Config struct {
	Runtime Runtime `toml:"runtime"`
	Log     Log     `toml:"log"`
	Store   Store   `toml:"store"`
	Fiber   Fiber   `toml:"fiber"`

	// Dir is the directory containing the file (set at load time).
	Dir string `toml:"-"`
}

// Runtime configures member resolution diagnostics.
type Runtime struct {
	WarnUndefined    bool `toml:"warn-undefined"`
	StrictVisibility bool `toml:"strict-visibility"`
}

// Log configures the logging backend.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Store configures the snapshot database.
type Store struct {
	Path string `toml:"path"`
}

// Fiber configures fiber execution.
type Fiber struct {
	MaxConcurrent int `toml:"max-concurrent"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Runtime: Runtime{WarnUndefined: true, StrictVisibility: true},
		Store:   Store{Path: "objects.db"},
		Fiber:   Fiber{MaxConcurrent: 8},
	}
}

// Load parses dynobj.toml from the given directory. Keys missing from
// the file keep their defaults.
func Load(dir string) (*Config, error) {
	c, err := LoadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return c, nil
}

// LoadFile parses a configuration file at an explicit path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if c.Fiber.MaxConcurrent < 1 {
		return nil, fmt.Errorf("%s: fiber.max-concurrent must be at least 1", path)
	}
	c.Dir = filepath.Dir(path)
	return c, nil
}

// FindAndLoad walks up from startDir to find a dynobj.toml file and loads
// it. Returns the defaults if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			c := Default()
			c.Dir = startDir
			return c, nil
		}
		dir = parent
	}
}

// StorePath returns the snapshot database path, resolved against Dir.
func (c *Config) StorePath() string {
	if filepath.IsAbs(c.Store.Path) || c.Dir == "" {
		return c.Store.Path
	}
	return filepath.Join(c.Dir, c.Store.Path)
}

// SpaceOptions translates the runtime section into Space options.
func (c *Config) SpaceOptions() []object.Option {
	return []object.Option{
		object.WithWarnUndefined(c.Runtime.WarnUndefined),
		object.WithStrictVisibility(c.Runtime.StrictVisibility),
	}
}

// Logging returns the logging section as a logging.Config.
func (c *Config) Logging() logging.Config {
	return logging.Config{Verbosity: c.Log.Verbosity, File: c.Log.File}
}
