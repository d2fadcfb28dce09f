// Package config assembles runtime settings from defaults, an optional YAML
// file and DIARYCARD_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/diarycard/internal/rxnorm"
	"gopkg.in/yaml.v3"
)

// Config holds everything cmd/diarycard needs to wire the application.
type Config struct {
	DBPath           string        `yaml:"db_path"`
	SecretPath       string        `yaml:"secret_path"`
	LogLevel         string        `yaml:"log_level"`
	SearchDebounceMs int           `yaml:"search_debounce_ms"`
	HistoryLimit     int           `yaml:"history_limit"`
	DueWindowMin     int           `yaml:"due_window_min"`
	Redis            RedisConfig   `yaml:"redis"`
	RxNav            rxnorm.Config `yaml:"rxnav"`
}

// RedisConfig selects the reminder store. An empty Addr keeps reminders in
// process memory.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Default returns the configuration rooted at dir (normally ~/.diarycard).
func Default(dir string) Config {
	return Config{
		DBPath:           filepath.Join(dir, "diarycard.db"),
		SecretPath:       filepath.Join(dir, "secret"),
		LogLevel:         "warn",
		SearchDebounceMs: 800,
		HistoryLimit:     30,
		DueWindowMin:     15,
		RxNav:            rxnorm.DefaultConfig(),
	}
}

// Dir returns the application directory, ~/.diarycard.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".diarycard"), nil
}

// Load builds a Config for dir. path names the YAML file; when empty,
// dir/config.yaml is used. A missing file is not an error.
func Load(dir, path string) (Config, error) {
	cfg := Default(dir)
	if path == "" {
		path = filepath.Join(dir, "config.yaml")
	}
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	return cfg.WithEnv().sanitized(Default(dir)), nil
}

// sanitized replaces out-of-range values, typically from the YAML file, with
// the defaults in d.
func (c Config) sanitized(d Config) Config {
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.SecretPath == "" {
		c.SecretPath = d.SecretPath
	}
	if c.SearchDebounceMs < 0 {
		c.SearchDebounceMs = d.SearchDebounceMs
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = d.HistoryLimit
	}
	if c.DueWindowMin <= 0 {
		c.DueWindowMin = d.DueWindowMin
	}
	if c.Redis.DB < 0 {
		c.Redis.DB = d.Redis.DB
	}
	c.RxNav = c.RxNav.Sanitized()
	return c
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// WithEnv returns c with DIARYCARD_* overrides applied. Invalid values are
// ignored.
func (c Config) WithEnv() Config {
	if v := os.Getenv("DIARYCARD_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("DIARYCARD_SECRET"); v != "" {
		c.SecretPath = v
	}
	if v := os.Getenv("DIARYCARD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("DIARYCARD_SEARCH_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.SearchDebounceMs = n
		}
	}
	if v := os.Getenv("DIARYCARD_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	c.RxNav = c.RxNav.WithEnv()
	return c
}

// SearchDebounce returns the medication search delay.
func (c Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMs) * time.Millisecond
}

// DueWindow returns how far back `remind due` looks.
func (c Config) DueWindow() time.Duration {
	return time.Duration(c.DueWindowMin) * time.Minute
}

// Level parses LogLevel, defaulting to warn.
func (c Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
