package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	logpkg "github.com/rzbill/cliphist/pkg/log"
)

// Backend names accepted in Config.Backend.
const (
	BackendPebble = "pebble"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Fsync policies accepted in Config.Fsync.
const (
	FsyncAlways   = "always"
	FsyncInterval = "interval"
	FsyncNever    = "never"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	MaxItems        int    `json:"maxItems" yaml:"max-items"`
	MaxDedupeSearch int    `json:"maxDedupeSearch" yaml:"max-dedupe-search"`
	PreviewWidth    int    `json:"previewWidth" yaml:"preview-width"`
	DBPath          string `json:"dbPath" yaml:"db-path"`
	Backend         string `json:"backend" yaml:"backend"`
	Fsync           string `json:"fsync" yaml:"fsync"`

	Log logpkg.Config `json:"log" yaml:"log"`
}

// Default returns built-in defaults. DBPath is resolved from the environment.
func Default() Config {
	return Config{
		MaxItems:        750,
		MaxDedupeSearch: 100,
		PreviewWidth:    100,
		DBPath:          DefaultDBPath(),
		Backend:         BackendPebble,
		Fsync:           FsyncAlways,
		Log:             logpkg.Config{Level: "warn", Format: "text"},
	}
}

// Load reads configuration from a JSON (.json), YAML (.yaml, .yml) or
// "key value" line file, overlaying it on Default. If path is empty, returns
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := parseLines(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// parseLines reads the flag-style format: one "key value" pair per line,
// blank lines and lines starting with # ignored.
func parseLines(b []byte, cfg *Config) error {
	sc := bufio.NewScanner(bytes.NewReader(b))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, _ := strings.Cut(line, " ")
		value = strings.TrimSpace(value)
		if err := Set(cfg, key, value); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return sc.Err()
}

// Set assigns one setting by its flag name (max-items, db-path, ...).
func Set(cfg *Config, key, value string) error {
	atoi := func(dst *int) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", key, value)
		}
		*dst = n
		return nil
	}
	switch key {
	case "max-items":
		return atoi(&cfg.MaxItems)
	case "max-dedupe-search":
		return atoi(&cfg.MaxDedupeSearch)
	case "preview-width":
		return atoi(&cfg.PreviewWidth)
	case "db-path":
		cfg.DBPath = value
	case "backend":
		cfg.Backend = value
	case "fsync":
		cfg.Fsync = value
	case "log-level":
		cfg.Log.Level = value
	case "log-format":
		cfg.Log.Format = value
	case "log-output":
		cfg.Log.Output = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.MaxItems < 0 {
		return fmt.Errorf("max-items must not be negative, got %d", c.MaxItems)
	}
	if c.MaxDedupeSearch < 0 {
		return fmt.Errorf("max-dedupe-search must not be negative, got %d", c.MaxDedupeSearch)
	}
	if c.PreviewWidth < 0 {
		return fmt.Errorf("preview-width must not be negative, got %d", c.PreviewWidth)
	}
	switch c.Backend {
	case BackendPebble, BackendBolt, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.Fsync {
	case FsyncAlways, FsyncInterval, FsyncNever:
	default:
		return fmt.Errorf("unknown fsync policy %q", c.Fsync)
	}
	if c.DBPath == "" && c.Backend != BackendMemory {
		return fmt.Errorf("db-path is required")
	}
	if _, err := logpkg.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	_, err := logpkg.ParseFormat(c.Log.Format)
	return err
}
