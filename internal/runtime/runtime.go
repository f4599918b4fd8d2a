package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cfgpkg "github.com/rzbill/cliphist/internal/config"
	"github.com/rzbill/cliphist/internal/history"
	"github.com/rzbill/cliphist/internal/kv"
	boltstore "github.com/rzbill/cliphist/internal/storage/bolt"
	memstore "github.com/rzbill/cliphist/internal/storage/memory"
	pebblestore "github.com/rzbill/cliphist/internal/storage/pebble"
	logpkg "github.com/rzbill/cliphist/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	// FsyncInterval applies when Config.Fsync is "interval".
	FsyncInterval time.Duration
	Logger        logpkg.Logger
}

// Runtime owns one open backend.
type Runtime struct {
	db      kv.Store
	config  cfgpkg.Config
	base    logpkg.Logger
	logger  logpkg.Logger
	metrics *storageMetrics
}

// Open initializes the configured backend and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	rt := &Runtime{config: cfg, base: logger, logger: logger.WithComponent("runtime")}
	switch cfg.Backend {
	case cfgpkg.BackendMemory:
		rt.db = memstore.New()
	case cfgpkg.BackendBolt:
		db, err := boltstore.Open(boltstore.Options{
			Path:   cfg.DBPath,
			NoSync: cfg.Fsync == cfgpkg.FsyncNever,
			Logger: logger.WithComponent("storage"),
		})
		if err != nil {
			return nil, err
		}
		rt.db = db
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("create parent dir: %w", err)
		}
		rt.metrics = &storageMetrics{logger: logger.WithComponent("storage")}
		db, err := pebblestore.Open(pebblestore.Options{
			DataDir:       cfg.DBPath,
			Fsync:         fsyncMode(cfg.Fsync),
			FsyncInterval: opts.FsyncInterval,
			Metrics:       rt.metrics,
			Logger:        logger,
		})
		if err != nil {
			return nil, err
		}
		rt.db = db
	}
	rt.logger.Debug("opened storage", logpkg.Str("backend", cfg.Backend), logpkg.Str("path", cfg.DBPath))
	return rt, nil
}

func fsyncMode(s string) pebblestore.FsyncMode {
	switch s {
	case cfgpkg.FsyncInterval:
		return pebblestore.FsyncModeInterval
	case cfgpkg.FsyncNever:
		return pebblestore.FsyncModeNever
	default:
		return pebblestore.FsyncModeAlways
	}
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	if r.metrics != nil {
		r.metrics.report()
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// CheckHealth opens and closes a read transaction with a cursor.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	return kv.View(ctx, r.db, func(tx kv.Tx) error {
		c, err := tx.Cursor()
		if err != nil {
			return err
		}
		c.First()
		return c.Close()
	})
}

// History returns a history over the open backend. When opts carries no
// eviction hook, evictions are logged at debug level.
func (r *Runtime) History(opts history.Options) *history.Store {
	if opts.Logger == nil {
		opts.Logger = r.base
	}
	if opts.Evictions == nil {
		logger := opts.Logger.WithComponent("history")
		opts.Evictions = func(e history.Eviction) {
			logger.Debug("evicted entries",
				logpkg.Uint64("first_id", e.FirstID),
				logpkg.Uint64("last_id", e.LastID),
				logpkg.Int("count", e.Count))
		}
	}
	return history.New(r.db, opts)
}

// Compact asks the backend to reclaim space freed by deletions. Backends
// without compaction return nil.
func (r *Runtime) Compact() error {
	if c, ok := r.db.(interface{ Compact() error }); ok {
		return c.Compact()
	}
	return nil
}

// KV exposes the underlying store for advanced operations (internal use only).
func (r *Runtime) KV() kv.Store { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
