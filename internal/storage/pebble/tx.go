package pebblestore

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/rzbill/cliphist/internal/kv"
)

// reader is the read surface shared by snapshots and indexed batches.
type reader interface {
	Get(key []byte) ([]byte, io.Closer, error)
	NewIter(o *pebble.IterOptions) (*pebble.Iterator, error)
}

func get(db *DB, r reader, key []byte) ([]byte, error) {
	start := time.Now()
	val, closer, err := r.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, kv.ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()
	buf := append([]byte(nil), val...)
	db.metrics.ObserveRead(time.Since(start), len(buf))
	return buf, nil
}

func openCursor(db *DB, r reader) (kv.Cursor, error) {
	it, err := r.NewIter(db.iterOptions())
	if err != nil {
		return nil, err
	}
	return &cursor{it: it, strip: len(db.entryLow)}, nil
}

// snapshotTx is a read-only transaction over a point-in-time snapshot.
type snapshotTx struct {
	db   *DB
	snap *pebble.Snapshot
	done bool
}

func (t *snapshotTx) Get(key []byte) ([]byte, error) {
	if t.done {
		return nil, kv.ErrTxClosed
	}
	return get(t.db, t.snap, t.db.entryKey(key))
}

func (t *snapshotTx) Put(key, value []byte) error   { return kv.ErrTxNotWritable }
func (t *snapshotTx) Delete(key []byte) error       { return kv.ErrTxNotWritable }
func (t *snapshotTx) NextSequence() (uint64, error) { return 0, kv.ErrTxNotWritable }
func (t *snapshotTx) Writable() bool                { return false }
func (t *snapshotTx) Commit() error                 { return kv.ErrTxNotWritable }

func (t *snapshotTx) Cursor() (kv.Cursor, error) {
	if t.done {
		return nil, kv.ErrTxClosed
	}
	return openCursor(t.db, t.snap)
}

func (t *snapshotTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.snap.Close()
}

// batchTx is a read-write transaction. Reads see the database plus the
// batch's own pending writes.
type batchTx struct {
	db    *DB
	ctx   context.Context
	batch *pebble.Batch
	done  bool
}

func (t *batchTx) Get(key []byte) ([]byte, error) {
	if t.done {
		return nil, kv.ErrTxClosed
	}
	return get(t.db, t.batch, t.db.entryKey(key))
}

func (t *batchTx) Put(key, value []byte) error {
	if t.done {
		return kv.ErrTxClosed
	}
	start := time.Now()
	if err := t.batch.Set(t.db.entryKey(key), value, nil); err != nil {
		return err
	}
	t.db.metrics.ObserveWrite(time.Since(start), len(value))
	return nil
}

func (t *batchTx) Delete(key []byte) error {
	if t.done {
		return kv.ErrTxClosed
	}
	return t.batch.Delete(t.db.entryKey(key), nil)
}

// NextSequence increments the persisted counter inside the batch so the new
// value commits atomically with the entry that uses it.
func (t *batchTx) NextSequence() (uint64, error) {
	if t.done {
		return 0, kv.ErrTxClosed
	}
	var last uint64
	val, closer, err := t.batch.Get(t.db.seqKey)
	switch {
	case err == nil:
		if len(val) >= 8 {
			last = binary.BigEndian.Uint64(val[:8])
		}
		closer.Close()
	case errors.Is(err, pebble.ErrNotFound):
	default:
		return 0, err
	}
	next := last + 1
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], next)
	if err := t.batch.Set(t.db.seqKey, b[:], nil); err != nil {
		return 0, err
	}
	return next, nil
}

func (t *batchTx) Cursor() (kv.Cursor, error) {
	if t.done {
		return nil, kv.ErrTxClosed
	}
	return openCursor(t.db, t.batch)
}

func (t *batchTx) Writable() bool { return true }

func (t *batchTx) Commit() error {
	if t.done {
		return kv.ErrTxClosed
	}
	t.done = true
	defer t.db.writer.Unlock()
	defer t.batch.Close()
	if t.batch.Empty() {
		return nil
	}
	return t.db.CommitBatch(t.ctx, t.batch)
}

func (t *batchTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.db.writer.Unlock()
	return t.batch.Close()
}

// cursor adapts a bounded Pebble iterator to kv.Cursor, stripping the
// collection prefix from keys.
type cursor struct {
	it    *pebble.Iterator
	strip int
}

func (c *cursor) at(ok bool) ([]byte, []byte) {
	if !ok {
		return nil, nil
	}
	return c.it.Key()[c.strip:], c.it.Value()
}

func (c *cursor) First() ([]byte, []byte) { return c.at(c.it.First()) }
func (c *cursor) Last() ([]byte, []byte)  { return c.at(c.it.Last()) }
func (c *cursor) Next() ([]byte, []byte)  { return c.at(c.it.Next()) }
func (c *cursor) Prev() ([]byte, []byte)  { return c.at(c.it.Prev()) }

func (c *cursor) Close() error {
	err := c.it.Error()
	return errors.Join(err, c.it.Close())
}
