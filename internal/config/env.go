package config

import (
	"fmt"
	"os"
	"strconv"
)

// FromEnv overlays CLIPHIST_* environment variables onto cfg. A numeric
// variable that does not parse is an error, as it is in a file or a flag.
func FromEnv(cfg *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"CLIPHIST_MAX_ITEMS", &cfg.MaxItems},
		{"CLIPHIST_MAX_DEDUPE_SEARCH", &cfg.MaxDedupeSearch},
		{"CLIPHIST_PREVIEW_WIDTH", &cfg.PreviewWidth},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", e.name, v)
		}
		*e.dst = n
	}
	if v := os.Getenv("CLIPHIST_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CLIPHIST_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("CLIPHIST_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("CLIPHIST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CLIPHIST_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}
