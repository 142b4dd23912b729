package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stefanpenner/quadrant/pkg/store"
)

const namespace = "QUADRANT"

// LogFileName is the log written inside the data directory while the TUI
// owns the terminal.
const LogFileName = "quadrant.log"

// Config is read from QUADRANT_* environment variables.
type Config struct {
	Dir            string        `envconfig:"DIR"`
	Slot           string        `envconfig:"SLOT" default:"todoTasks"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	RenderDebounce time.Duration `envconfig:"RENDER_DEBOUNCE" default:"100ms"`
}

// Load reads the environment. An empty Dir resolves to the OS default.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(namespace, &c); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	c.Dir = store.ResolveDataDir(c.Dir)
	return &c, nil
}

// SlogLevel parses LogLevel, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	if c == nil {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.SlogLevel()}))
}

// LogFile opens the log file in the data directory for appending.
func (c *Config) LogFile() (*os.File, error) {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(c.Dir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
