package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Tx.Get when the key is absent.
	ErrNotFound = errors.New("kv: key not found")
	// ErrTxNotWritable is returned when a write is attempted on a read-only transaction.
	ErrTxNotWritable = errors.New("kv: transaction is read-only")
	// ErrTxClosed is returned when a transaction is used after Commit or Rollback.
	ErrTxClosed = errors.New("kv: transaction is already committed or rolled back")
)

// Store is a single-collection, transactional, ordered key-value store.
// Keys are compared byte-wise.
type Store interface {
	// Begin starts a transaction. At most one writable transaction is active
	// at a time; read-only transactions observe a consistent snapshot.
	Begin(ctx context.Context, writable bool) (Tx, error)
	// Close releases the underlying database.
	Close() error
}

// Tx is a read-only or read-write transaction over the collection.
//
// Slices returned by Get and by cursors are only valid until the transaction
// ends (and, for cursors, until the next cursor move). Copy them to retain.
type Tx interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key []byte) error
	// NextSequence returns the next value of the collection's persistent
	// monotonic counter. The first value is 1.
	NextSequence() (uint64, error)
	// Cursor opens a cursor over the collection. Mutating the collection while
	// a cursor is open is not supported; collect keys and apply after Close.
	Cursor() (Cursor, error)
	Writable() bool
	Commit() error
	Rollback() error
}

// Cursor walks the collection in ascending key order. Every positioning method
// returns a nil key once the cursor is exhausted.
type Cursor interface {
	First() (key, value []byte)
	Last() (key, value []byte)
	Next() (key, value []byte)
	Prev() (key, value []byte)
	// Close releases the cursor and reports any iteration error.
	Close() error
}
