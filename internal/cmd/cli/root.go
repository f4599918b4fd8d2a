package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	cfgpkg "github.com/rzbill/cliphist/internal/config"
	"github.com/rzbill/cliphist/internal/history"
	"github.com/rzbill/cliphist/internal/runtime"
	logpkg "github.com/rzbill/cliphist/pkg/log"
)

// Version is stamped at build time with -ldflags "-X".
var Version = "dev"

// settingFlags are the flags that map one-to-one onto config.Set keys.
var settingFlags = []string{"max-items", "max-dedupe-search", "preview-width", "db-path", "backend", "fsync", "log-level"}

// app carries the resolved settings from PersistentPreRunE to the commands.
type app struct {
	configPath string
	cfg        cfgpkg.Config
	logger     logpkg.Logger
	logOutput  io.Closer
}

// NewRoot constructs the root Cobra command with every subcommand registered.
func NewRoot() *cobra.Command {
	a := &app{}
	defaults := cfgpkg.Default()

	root := &cobra.Command{
		Use:           "cliphist",
		Short:         "Clipboard history manager",
		Long:          "cliphist stores clipboard snapshots read from stdin and lists, decodes and deletes them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolve(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.Int("max-items", defaults.MaxItems, "Maximum number of entries to keep")
	pf.Int("max-dedupe-search", defaults.MaxDedupeSearch, "Number of newest entries to check for duplicates")
	pf.Int("preview-width", defaults.PreviewWidth, "Maximum number of characters to preview")
	pf.String("db-path", defaults.DBPath, "Path to the database")
	pf.String("config-path", cfgpkg.DefaultConfigPath(), "Path to the config file")
	pf.String("backend", defaults.Backend, "Storage backend: pebble|bolt")
	pf.String("fsync", defaults.Fsync, "Fsync mode: always|interval|never")
	pf.String("log-level", defaults.Log.Level, "Log level: debug|info|warn|error")

	root.AddCommand(
		newStoreCommand(a),
		newListCommand(a),
		newSearchCommand(a),
		newDecodeCommand(a),
		newDeleteCommand(a),
		newDeleteQueryCommand(a),
		newDeleteFilterCommand(a),
		newDeleteLastCommand(a),
		newWipeCommand(a),
		newVersionCommand(a),
	)
	for _, c := range root.Commands() {
		run := c.RunE
		c.RunE = func(cmd *cobra.Command, args []string) (err error) {
			defer func() { err = errors.Join(err, a.closeLog()) }()
			return run(cmd, args)
		}
	}
	return root
}

// resolve builds the effective config and the logger.
func (a *app) resolve(cmd *cobra.Command) error {
	flags := cmd.Flags()
	a.configPath, _ = flags.GetString("config-path")

	cfg, err := cfgpkg.Load(a.configPath)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !flags.Changed("config-path"):
		cfg = cfgpkg.Default()
	default:
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfgpkg.FromEnv(&cfg); err != nil {
		return err
	}
	for _, name := range settingFlags {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := cfgpkg.Set(&cfg, name, f.Value.String()); err != nil {
				return err
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Backend == cfgpkg.BackendMemory {
		return fmt.Errorf("backend %q keeps nothing between invocations; use %s or %s", cfg.Backend, cfgpkg.BackendPebble, cfgpkg.BackendBolt)
	}
	a.cfg = cfg

	if cfg.Log.Output != "" {
		a.logger, a.logOutput, err = logpkg.ApplyConfig(&cfg.Log)
		return err
	}
	level, _ := logpkg.ParseLevel(cfg.Log.Level)
	format, _ := logpkg.ParseFormat(cfg.Log.Format)
	a.logger = logpkg.NewLogger(
		logpkg.WithLevel(level),
		logpkg.WithFormat(format),
		logpkg.WithOutput(cmd.ErrOrStderr()),
	)
	return nil
}

// closeLog releases a log file opened by resolve.
func (a *app) closeLog() error {
	if a.logOutput == nil {
		return nil
	}
	err := a.logOutput.Close()
	a.logOutput = nil
	return err
}

// withHistory opens the database for the duration of fn.
func (a *app) withHistory(fn func(rt *runtime.Runtime, h *history.Store) error) (err error) {
	rt, err := runtime.Open(runtime.Options{Config: a.cfg, Logger: a.logger})
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, rt.Close()) }()
	h := rt.History(history.Options{
		MaxItems:        a.cfg.MaxItems,
		MaxDedupeSearch: a.cfg.MaxDedupeSearch,
		Logger:          a.logger,
	})
	return fn(rt, h)
}
