package kv

import (
	"context"
	"errors"
	"fmt"
)

// Update runs fn inside a writable transaction and commits when fn returns nil.
// Any error from fn rolls the transaction back and is returned unchanged.
func Update(ctx context.Context, s Store, fn func(Tx) error) error {
	tx, err := s.Begin(ctx, true)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// View runs fn inside a read-only transaction.
func View(ctx context.Context, s Store, fn func(Tx) error) error {
	tx, err := s.Begin(ctx, false)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	return fn(tx)
}

// Count returns the number of keys in the collection.
func Count(tx Tx) (n int, err error) {
	c, err := tx.Cursor()
	if err != nil {
		return 0, err
	}
	defer func() { err = errors.Join(err, c.Close()) }()
	for range Ascend(c) {
		n++
	}
	return n, nil
}
