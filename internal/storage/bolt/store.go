package boltstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/rzbill/cliphist/internal/kv"
	logpkg "github.com/rzbill/cliphist/pkg/log"
)

// DefaultBucket is the bucket holding entries when Options.Bucket is empty.
const DefaultBucket = "b"

// Options configures a bbolt-backed store.
type Options struct {
	// Path is the database file. Parent directories are created.
	Path string
	// Bucket names the bucket holding entries.
	Bucket string
	// NoSync skips fsync after each commit. Tests only.
	NoSync bool
	// Timeout bounds the wait for the file lock held by another process.
	Timeout time.Duration
	Logger  logpkg.Logger
}

// Store is a kv.Store over one bbolt bucket.
type Store struct {
	db     *bbolt.DB
	bucket []byte
	logger logpkg.Logger
}

var _ kv.Store = (*Store)(nil)

// Open opens or creates the database file at opts.Path.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, errors.New("bolt: Options.Path is required")
	}
	if opts.Bucket == "" {
		opts.Bucket = DefaultBucket
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("bolt: create parent dir: %w", err)
	}

	db, err := bbolt.Open(opts.Path, 0o600, &bbolt.Options{
		Timeout: opts.Timeout,
		NoSync:  opts.NoSync,
	})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", opts.Path, err)
	}
	logger.Debug("opened bolt store", logpkg.Str("path", opts.Path), logpkg.Bool("no_sync", opts.NoSync))
	return &Store{db: db, bucket: []byte(opts.Bucket), logger: logger}, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Begin starts a bbolt transaction. Writable transactions create the bucket
// on first use; read transactions treat a missing bucket as empty.
func (s *Store) Begin(ctx context.Context, writable bool) (kv.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	btx, err := s.db.Begin(writable)
	if err != nil {
		return nil, err
	}
	t := &tx{tx: btx}
	if writable {
		b, err := btx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			_ = btx.Rollback()
			return nil, fmt.Errorf("creating bucket %s: %w", s.bucket, err)
		}
		t.bucket = b
	} else {
		t.bucket = btx.Bucket(s.bucket)
	}
	return t, nil
}

type tx struct {
	tx     *bbolt.Tx
	bucket *bbolt.Bucket // nil for a read tx on a fresh file
	done   bool
}

func (t *tx) Get(key []byte) ([]byte, error) {
	if t.done {
		return nil, kv.ErrTxClosed
	}
	if t.bucket == nil {
		return nil, kv.ErrNotFound
	}
	v := t.bucket.Get(key)
	if v == nil {
		return nil, kv.ErrNotFound
	}
	return v, nil
}

func (t *tx) writeCheck() error {
	if t.done {
		return kv.ErrTxClosed
	}
	if !t.tx.Writable() {
		return kv.ErrTxNotWritable
	}
	return nil
}

func (t *tx) Put(key, value []byte) error {
	if err := t.writeCheck(); err != nil {
		return err
	}
	return t.bucket.Put(key, value)
}

func (t *tx) Delete(key []byte) error {
	if err := t.writeCheck(); err != nil {
		return err
	}
	return t.bucket.Delete(key)
}

func (t *tx) NextSequence() (uint64, error) {
	if err := t.writeCheck(); err != nil {
		return 0, err
	}
	return t.bucket.NextSequence()
}

func (t *tx) Cursor() (kv.Cursor, error) {
	if t.done {
		return nil, kv.ErrTxClosed
	}
	if t.bucket == nil {
		return emptyCursor{}, nil
	}
	return &cursor{c: t.bucket.Cursor()}, nil
}

func (t *tx) Writable() bool { return t.tx.Writable() }

func (t *tx) Commit() error {
	if t.done {
		return kv.ErrTxClosed
	}
	if !t.tx.Writable() {
		return kv.ErrTxNotWritable
	}
	t.done = true
	return t.tx.Commit()
}

func (t *tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}

type cursor struct{ c *bbolt.Cursor }

func (c *cursor) First() ([]byte, []byte) { return c.c.First() }
func (c *cursor) Last() ([]byte, []byte)  { return c.c.Last() }
func (c *cursor) Next() ([]byte, []byte)  { return c.c.Next() }
func (c *cursor) Prev() ([]byte, []byte)  { return c.c.Prev() }
func (c *cursor) Close() error            { return nil }

type emptyCursor struct{}

func (emptyCursor) First() ([]byte, []byte) { return nil, nil }
func (emptyCursor) Last() ([]byte, []byte)  { return nil, nil }
func (emptyCursor) Next() ([]byte, []byte)  { return nil, nil }
func (emptyCursor) Prev() ([]byte, []byte)  { return nil, nil }
func (emptyCursor) Close() error            { return nil }
