package memstore

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/rzbill/cliphist/internal/kv"
)

// state is an immutable view of the collection. Writers clone it and publish
// a new pointer on commit, so readers keep a stable snapshot.
type state struct {
	keys   [][]byte // sorted
	values map[string][]byte
	seq    uint64
}

func (s *state) clone() *state {
	ns := &state{
		keys:   make([][]byte, len(s.keys)),
		values: make(map[string][]byte, len(s.values)),
		seq:    s.seq,
	}
	copy(ns.keys, s.keys)
	for k, v := range s.values {
		ns.values[k] = v
	}
	return ns
}

func (s *state) search(key []byte) (int, bool) {
	return slices.BinarySearchFunc(s.keys, key, bytes.Compare)
}

// Store is an in-memory kv.Store with snapshot reads and a single writer.
type Store struct {
	writer sync.Mutex

	mu     sync.RWMutex
	cur    *state
	closed bool

	// FailCommit, when set, makes the next Commit return it. Tests use it to
	// check that failed transactions leave no trace.
	FailCommit error
}

// New returns an empty store.
func New() *Store {
	return &Store{cur: &state{values: map[string][]byte{}}}
}

// Begin starts a transaction. Writable transactions block until the previous
// writer commits or rolls back.
func (s *Store) Begin(ctx context.Context, writable bool) (kv.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if writable {
		s.writer.Lock()
	}
	s.mu.RLock()
	snap, closed := s.cur, s.closed
	s.mu.RUnlock()
	if closed {
		if writable {
			s.writer.Unlock()
		}
		return nil, errClosed
	}
	t := &tx{store: s, writable: writable, st: snap}
	if writable {
		t.st = snap.clone()
	}
	return t, nil
}

// Close marks the store closed. Open transactions may still finish.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) publish(st *state) error {
	if err := s.FailCommit; err != nil {
		s.FailCommit = nil
		return err
	}
	s.mu.Lock()
	s.cur = st
	s.mu.Unlock()
	return nil
}

type tx struct {
	store    *Store
	writable bool
	st       *state
	done     bool
}

func (t *tx) check(write bool) error {
	if t.done {
		return kv.ErrTxClosed
	}
	if write && !t.writable {
		return kv.ErrTxNotWritable
	}
	return nil
}

func (t *tx) Get(key []byte) ([]byte, error) {
	if err := t.check(false); err != nil {
		return nil, err
	}
	v, ok := t.st.values[string(key)]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return v, nil
}

func (t *tx) Put(key, value []byte) error {
	if err := t.check(true); err != nil {
		return err
	}
	k := string(key)
	if _, ok := t.st.values[k]; !ok {
		i, _ := t.st.search(key)
		t.st.keys = slices.Insert(t.st.keys, i, []byte(k))
	}
	t.st.values[k] = append([]byte(nil), value...)
	return nil
}

func (t *tx) Delete(key []byte) error {
	if err := t.check(true); err != nil {
		return err
	}
	i, ok := t.st.search(key)
	if !ok {
		return nil
	}
	t.st.keys = slices.Delete(t.st.keys, i, i+1)
	delete(t.st.values, string(key))
	return nil
}

func (t *tx) NextSequence() (uint64, error) {
	if err := t.check(true); err != nil {
		return 0, err
	}
	t.st.seq++
	return t.st.seq, nil
}

func (t *tx) Cursor() (kv.Cursor, error) {
	if err := t.check(false); err != nil {
		return nil, err
	}
	keys := make([][]byte, len(t.st.keys))
	copy(keys, t.st.keys)
	return &cursor{keys: keys, values: t.st.values, pos: -1}, nil
}

func (t *tx) Writable() bool { return t.writable }

func (t *tx) Commit() error {
	if err := t.check(true); err != nil {
		return err
	}
	t.done = true
	defer t.store.writer.Unlock()
	return t.store.publish(t.st)
}

func (t *tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	if t.writable {
		t.store.writer.Unlock()
	}
	return nil
}

type cursor struct {
	keys   [][]byte
	values map[string][]byte
	pos    int
}

func (c *cursor) at() ([]byte, []byte) {
	if c.pos < 0 || c.pos >= len(c.keys) {
		return nil, nil
	}
	k := c.keys[c.pos]
	return k, c.values[string(k)]
}

func (c *cursor) First() ([]byte, []byte) { c.pos = 0; return c.at() }
func (c *cursor) Last() ([]byte, []byte)  { c.pos = len(c.keys) - 1; return c.at() }

func (c *cursor) Next() ([]byte, []byte) {
	if c.pos < len(c.keys) {
		c.pos++
	}
	return c.at()
}

func (c *cursor) Prev() ([]byte, []byte) {
	if c.pos >= 0 {
		c.pos--
	}
	return c.at()
}

func (c *cursor) Close() error { return nil }
