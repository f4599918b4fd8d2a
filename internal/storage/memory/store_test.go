package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/rzbill/cliphist/internal/kv"
)

func TestSnapshotIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := kv.Update(ctx, s, func(tx kv.Tx) error { return tx.Put([]byte("a"), []byte("1")) }); err != nil {
		t.Fatalf("put: %v", err)
	}

	rtx, err := s.Begin(ctx, false)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer rtx.Rollback()

	if err := kv.Update(ctx, s, func(tx kv.Tx) error {
		if err := tx.Put([]byte("a"), []byte("2")); err != nil {
			return err
		}
		return tx.Put([]byte("b"), []byte("3"))
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := rtx.Get([]byte("a"))
	if err != nil || string(got) != "1" {
		t.Fatalf("snapshot read %q (%v), want 1", got, err)
	}
	if _, err := rtx.Get([]byte("b")); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("later key visible in snapshot: %v", err)
	}
}

func TestFailCommit(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")
	s.FailCommit = boom

	err := kv.Update(ctx, s, func(tx kv.Tx) error {
		_, err := tx.NextSequence()
		return err
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	var seq uint64
	if err := kv.Update(ctx, s, func(tx kv.Tx) (err error) {
		seq, err = tx.NextSequence()
		return err
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if seq != 1 {
		t.Fatalf("failed commit leaked sequence, got %d", seq)
	}
}

func TestCursorWalk(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := kv.Update(ctx, s, func(tx kv.Tx) error {
		for _, k := range []string{"c", "a", "b"} {
			if err := tx.Put([]byte(k), nil); err != nil {
				return err
			}
		}
		return tx.Delete([]byte("missing"))
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_ = kv.View(ctx, s, func(tx kv.Tx) error {
		c, _ := tx.Cursor()
		defer c.Close()
		var asc, desc string
		for k := range kv.Ascend(c) {
			asc += string(k)
		}
		for k := range kv.Descend(c) {
			desc += string(k)
		}
		if asc != "abc" || desc != "cba" {
			t.Fatalf("asc=%q desc=%q", asc, desc)
		}
		if k, _ := c.Next(); k != nil {
			t.Fatalf("exhausted cursor returned %q", k)
		}
		return nil
	})
}

func TestClosed(t *testing.T) {
	s := New()
	_ = s.Close()
	if _, err := s.Begin(context.Background(), true); err == nil {
		t.Fatalf("expected error on closed store")
	}
	// writer lock must have been released
	if _, err := s.Begin(context.Background(), true); err == nil {
		t.Fatalf("expected error on closed store")
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Begin(ctx, false); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
