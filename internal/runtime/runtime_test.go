package runtime

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	cfgpkg "github.com/rzbill/cliphist/internal/config"
	"github.com/rzbill/cliphist/internal/history"
	logpkg "github.com/rzbill/cliphist/pkg/log"
)

func testConfig(t *testing.T, backend string) cfgpkg.Config {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.Backend = backend
	cfg.DBPath = filepath.Join(t.TempDir(), "nested", "db")
	cfg.Fsync = cfgpkg.FsyncNever
	return cfg
}

func TestOpenCloseHealth(t *testing.T) {
	for _, backend := range []string{cfgpkg.BackendPebble, cfgpkg.BackendBolt, cfgpkg.BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			rt, err := Open(Options{Config: testConfig(t, backend)})
			if err != nil {
				t.Fatalf("open runtime: %v", err)
			}
			defer rt.Close()
			if err := rt.CheckHealth(context.Background()); err != nil {
				t.Fatalf("health: %v", err)
			}
			if err := rt.Compact(); err != nil {
				t.Fatalf("compact: %v", err)
			}
		})
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, "sqlite")
	if _, err := Open(Options{Config: cfg}); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

func TestHistoryPersistsAcrossRuntimes(t *testing.T) {
	cfg := testConfig(t, cfgpkg.BackendPebble)
	ctx := context.Background()

	rt, err := Open(Options{Config: cfg})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := rt.History(history.DefaultOptions()).Put(ctx, []byte("persisted")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	rt, err = Open(Options{Config: cfg})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer rt.Close()
	got, err := rt.History(history.DefaultOptions()).Lookup(ctx, 1)
	if err != nil || string(got) != "persisted" {
		t.Fatalf("lookup = %q, %v", got, err)
	}
}

func TestEvictionsAndCommitsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := logpkg.NewLogger(logpkg.WithOutput(&buf), logpkg.WithFormat(logpkg.JSONFormat), logpkg.WithLevel(logpkg.DebugLevel))
	rt, err := Open(Options{Config: testConfig(t, cfgpkg.BackendPebble), Logger: logger})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	h := rt.History(history.Options{MaxItems: 1, MaxDedupeSearch: 1})
	for _, p := range []string{"one", "two"} {
		if _, err := h.Put(context.Background(), []byte(p)); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"msg":"evicted entries"`, `"first_id":1`, `"msg":"batch committed"`, `"msg":"storage totals"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
