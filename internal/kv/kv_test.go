package kv_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rzbill/cliphist/internal/kv"
	memstore "github.com/rzbill/cliphist/internal/storage/memory"
)

func seed(t *testing.T, keys ...string) kv.Store {
	t.Helper()
	s := memstore.New()
	err := kv.Update(context.Background(), s, func(tx kv.Tx) error {
		for _, k := range keys {
			if err := tx.Put([]byte(k), []byte(strings.ToUpper(k))); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func TestUpdateRollsBackOnError(t *testing.T) {
	s := seed(t, "a")
	boom := errors.New("boom")
	err := kv.Update(context.Background(), s, func(tx kv.Tx) error {
		if err := tx.Delete([]byte("a")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	_ = kv.View(context.Background(), s, func(tx kv.Tx) error {
		if _, err := tx.Get([]byte("a")); err != nil {
			t.Fatalf("rolled back delete applied: %v", err)
		}
		return nil
	})
}

func TestBeginErrorIsWrapped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := kv.Update(ctx, memstore.New(), func(kv.Tx) error { return nil })
	if !errors.Is(err, context.Canceled) || !strings.HasPrefix(err.Error(), "begin tx: ") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCommitErrorIsWrapped(t *testing.T) {
	s := memstore.New()
	boom := errors.New("boom")
	s.FailCommit = boom
	err := kv.Update(context.Background(), s, func(tx kv.Tx) error { return tx.Put([]byte("k"), nil) })
	if !errors.Is(err, boom) || !strings.HasPrefix(err.Error(), "commit: ") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestIteratorsAndKeys(t *testing.T) {
	s := seed(t, "b", "d", "a", "c")
	err := kv.View(context.Background(), s, func(tx kv.Tx) error {
		n, err := kv.Count(tx)
		if err != nil || n != 4 {
			t.Fatalf("count = %d (%v)", n, err)
		}
		c, err := tx.Cursor()
		if err != nil {
			return err
		}
		defer c.Close()

		var desc []string
		for k, v := range kv.Descend(c) {
			desc = append(desc, string(k)+"="+string(v))
			if len(desc) == 2 {
				break
			}
		}
		if strings.Join(desc, ",") != "d=D,c=C" {
			t.Fatalf("descend = %v", desc)
		}

		keys := kv.Keys(kv.Ascend(c), func(k, _ []byte) bool { return k[0] != 'b' })
		var got []string
		for _, k := range keys {
			got = append(got, string(k))
		}
		if strings.Join(got, "") != "acd" {
			t.Fatalf("keys = %v", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}
