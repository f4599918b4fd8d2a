package config

import (
	"os"
	"path/filepath"
)

// DefaultDBPath returns $XDG_CACHE_HOME/cliphist/db, falling back to the
// platform cache directory and finally the temp directory.
func DefaultDBPath() string {
	return filepath.Join(baseDir("XDG_CACHE_HOME", os.UserCacheDir), "cliphist", "db")
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/cliphist/config, with the same
// fallbacks as DefaultDBPath.
func DefaultConfigPath() string {
	return filepath.Join(baseDir("XDG_CONFIG_HOME", os.UserConfigDir), "cliphist", "config")
}

func baseDir(env string, platform func() (string, error)) string {
	// XDG override applies on every OS
	if xdg := os.Getenv(env); xdg != "" {
		return xdg
	}
	if dir, err := platform(); err == nil && dir != "" {
		return dir
	}
	return os.TempDir()
}
