// Package logging configures the commonlog backend used across dynobj and
// hands out the named loggers each package writes to.
package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

const (
	EnvLogLevel = "DYNOBJ_LOG_LEVEL"
	EnvLogFile  = "DYNOBJ_LOG_FILE"
)

// Root is the name prefix shared by all dynobj loggers.
const Root = "dynobj"

// Config selects verbosity and destination. Verbosity follows commonlog:
// -1 warning, 0 notice, 1 info, 2 and above debug. An empty File logs to
// stderr.
type Config struct {
	Verbosity int
	File      string
}

var configureOnce sync.Once

// Configure applies cfg (after environment overrides) to the backend.
// Only the first call in a process has an effect.
func Configure(cfg Config) {
	configureOnce.Do(func() {
		applyEnvOverrides(&cfg)
		if cfg.File == "" {
			commonlog.Configure(cfg.Verbosity, nil)
		} else {
			commonlog.Configure(cfg.Verbosity, &cfg.File)
		}
	})
}

// Get returns the logger for a subsystem, e.g. Get("store") logs as
// "dynobj.store".
func Get(name string) commonlog.Logger {
	if name == "" {
		return commonlog.GetLogger(Root)
	}
	return commonlog.GetLogger(Root + "." + name)
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Verbosity = v
	}
	if f := strings.TrimSpace(os.Getenv(EnvLogFile)); f != "" {
		cfg.File = f
	}
}

// ParseLevel maps a level name or a plain integer to a verbosity.
func ParseLevel(raw string) (int, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		return 0, false
	case "debug", "trace":
		return 2, true
	case "info":
		return 1, true
	case "notice":
		return 0, true
	case "warn", "warning":
		return -1, true
	case "error":
		return -2, true
	case "critical":
		return -3, true
	case "none", "off", "disabled":
		return -4, true
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	return 0, false
}
