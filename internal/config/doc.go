// Package config provides loading and environment overlay for cliphist
// configuration. It exposes a Default() baseline, file loading by extension,
// and CLIPHIST_* environment overrides.
//
// Example:
//
//	cfg := config.Default()
//	// Optionally load from file and overlay env vars
//	if fileCfg, err := config.Load(config.DefaultConfigPath()); err == nil {
//	    cfg = fileCfg
//	}
//	if err := config.FromEnv(&cfg); err != nil { /* handle */ }
//	if err := cfg.Validate(); err != nil { /* handle */ }
package config
