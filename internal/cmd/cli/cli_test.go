package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/cliphist/internal/history"
)

type harness struct {
	t      *testing.T
	dbPath string
}

func newHarness(t *testing.T, backend string) *harness {
	t.Helper()
	// keep the user's real config and env out of the way
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"CLIPHIST_MAX_ITEMS", "CLIPHIST_MAX_DEDUPE_SEARCH", "CLIPHIST_PREVIEW_WIDTH", "CLIPHIST_DB_PATH", "CLIPHIST_FSYNC", "CLIPHIST_LOG_LEVEL", "CLIPHIST_LOG_FORMAT", ClipboardStateEnv} {
		t.Setenv(k, "")
	}
	t.Setenv("CLIPHIST_BACKEND", backend)
	return &harness{t: t, dbPath: filepath.Join(t.TempDir(), "cliphist", "db")}
}

// run executes one cliphist invocation against the harness database.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	root := NewRoot()
	out := &bytes.Buffer{}
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--db-path", h.dbPath, "--fsync", "never"}, args...))
	err := root.Execute()
	return out.String(), err
}

func (h *harness) mustRun(stdin string, args ...string) string {
	h.t.Helper()
	out, err := h.run(stdin, args...)
	require.NoError(h.t, err, "cliphist %v", args)
	return out
}

func TestStoreListDecode(t *testing.T) {
	for _, backend := range []string{"pebble", "bolt"} {
		t.Run(backend, func(t *testing.T) {
			h := newHarness(t, backend)
			h.mustRun("first", "store")
			h.mustRun("second\n  line", "store")
			h.mustRun("   \n", "store")

			assert.Equal(t, "2\tsecond line\n1\tfirst\n", h.mustRun("", "list"))

			assert.Equal(t, "second\n  line", h.mustRun("2\tsecond line\n", "decode"))
			assert.Equal(t, "first", h.mustRun("", "decode", "1\tfirst"))

			_, err := h.run("", "decode", "9")
			require.ErrorIs(t, err, history.ErrNotFound)
			assert.EqualError(t, err, "key not found: 9")

			_, err = h.run("", "decode", "\tno id")
			require.ErrorIs(t, err, history.ErrInvalidID)
		})
	}
}

func TestStoreHonorsClipboardState(t *testing.T) {
	h := newHarness(t, "pebble")
	h.mustRun("a", "store")
	h.mustRun("b", "store")

	t.Setenv(ClipboardStateEnv, "sensitive")
	h.mustRun("secret", "store")
	assert.Equal(t, "2\tb\n1\ta\n", h.mustRun("", "list"))

	t.Setenv(ClipboardStateEnv, "clear")
	h.mustRun("ignored", "store")
	assert.Equal(t, "1\ta\n", h.mustRun("", "list"))

	t.Setenv(ClipboardStateEnv, "")
	h.mustRun("c", "store")
	assert.Equal(t, "3\tc\n1\ta\n", h.mustRun("", "list"))
}

func TestMaxItemsFlag(t *testing.T) {
	h := newHarness(t, "pebble")
	for _, p := range []string{"a", "b", "c"} {
		h.mustRun(p, "--max-items", "2", "store")
	}
	assert.Equal(t, "3\tc\n2\tb\n", h.mustRun("", "list"))
}

func TestDelete(t *testing.T) {
	h := newHarness(t, "pebble")
	for _, p := range []string{"a", "b", "c"} {
		h.mustRun(p, "store")
	}

	_, err := h.run("1\ta\nbogus\n", "delete")
	require.ErrorIs(t, err, history.ErrInvalidID)
	assert.Equal(t, "3\tc\n2\tb\n1\ta\n", h.mustRun("", "list"), "malformed input must not delete anything")

	h.mustRun("1\ta\r\n3\tc\n", "delete")
	assert.Equal(t, "2\tb\n", h.mustRun("", "list"))
}

func TestDeleteQueryFilterLastWipe(t *testing.T) {
	h := newHarness(t, "pebble")
	for _, p := range []string{"token abc", "hello", "token xyz", "a much longer entry here", "tail"} {
		h.mustRun(p, "store")
	}

	_, err := h.run("", "delete-query", "")
	require.ErrorIs(t, err, history.ErrEmptyQuery)

	h.mustRun("", "delete-query", "token")
	assert.Equal(t, "5\ttail\n4\ta much longer entry here\n2\thello\n", h.mustRun("", "list"))

	_, err = h.run("", "delete-filter", "size >")
	require.ErrorIs(t, err, history.ErrInvalidFilter)

	h.mustRun("", "delete-filter", "size > 10")
	assert.Equal(t, "5\ttail\n2\thello\n", h.mustRun("", "list"))

	h.mustRun("", "delete-last")
	assert.Equal(t, "2\thello\n", h.mustRun("", "list"))

	h.mustRun("", "wipe")
	assert.Empty(t, h.mustRun("", "list"))

	h.mustRun("fresh", "store")
	assert.Equal(t, "6\tfresh\n", h.mustRun("", "list"), "ids are not reused after wipe")
}

func TestListFilterAndSearch(t *testing.T) {
	h := newHarness(t, "pebble")
	for _, p := range []string{"git push", "make test", "git pull --rebase"} {
		h.mustRun(p, "store")
	}

	assert.Equal(t, "2\tmake test\n", h.mustRun("", "list", "--filter", `text.startsWith("make")`))
	assert.Equal(t, "1\tgit push\n", h.mustRun("", "search", "git", "--filter", "id < 2"))
	assert.Equal(t, "1\tgit push\n", h.mustRun("", "search", "gitpush", "--limit", "1"))
	assert.Equal(t, "3\tgit pull…\n", h.mustRun("", "--preview-width", "8", "search", "pull"))
}

func TestListZeroPreviewWidth(t *testing.T) {
	h := newHarness(t, "pebble")
	h.mustRun("hello world", "store")
	assert.Equal(t, "1\t…\n", h.mustRun("", "--preview-width", "0", "list"))
}

func TestConfigPrecedence(t *testing.T) {
	h := newHarness(t, "pebble")
	cfgFile := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(cfgFile, []byte("max-items 10\npreview-width 20\nmax-dedupe-search 5\n"), 0o644))

	t.Setenv("CLIPHIST_PREVIEW_WIDTH", "30")
	out := h.mustRun("", "--config-path", cfgFile, "--max-dedupe-search", "7", "version")

	assert.Contains(t, out, "max-items\t10\n", "file beats defaults")
	assert.Contains(t, out, "preview-width\t30\n", "env beats file")
	assert.Contains(t, out, "max-dedupe-search\t7\n", "flag beats file")
	assert.Contains(t, out, "db-path\t"+h.dbPath+"\n")
	assert.Contains(t, out, "config-path\t"+cfgFile+"\n")
	assert.True(t, strings.HasPrefix(out, "version\t"+Version+"\n"))
}

func TestConfigErrors(t *testing.T) {
	h := newHarness(t, "pebble")

	_, err := h.run("", "--config-path", filepath.Join(t.TempDir(), "missing"), "version")
	require.ErrorIs(t, err, os.ErrNotExist, "explicit config path must exist")

	_, err = h.run("", "--max-items", "-1", "version")
	require.Error(t, err)

	_, err = h.run("", "--backend", "sqlite", "list")
	require.Error(t, err)

	_, err = h.run("", "--backend", "memory", "list")
	assert.ErrorContains(t, err, `backend "memory"`)

	t.Setenv("CLIPHIST_MAX_ITEMS", "many")
	_, err = h.run("", "version")
	assert.ErrorContains(t, err, "CLIPHIST_MAX_ITEMS")
}

func TestLogOutputFile(t *testing.T) {
	h := newHarness(t, "pebble")
	logFile := filepath.Join(t.TempDir(), "cliphist.log")
	cfgFile := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(cfgFile, []byte("log-level debug\nlog-output "+logFile+"\n"), 0o644))

	h.mustRun("hello", "--config-path", cfgFile, "store")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "stored entry")
	assert.NotContains(t, string(data), "hello")
}

func TestDefaultConfigFileIsOptional(t *testing.T) {
	h := newHarness(t, "pebble")
	out := h.mustRun("", "version")
	assert.Contains(t, out, "max-items\t750\n")
	assert.Contains(t, out, "backend\tpebble\n")
}

func TestReadIDs(t *testing.T) {
	ids, err := readIDs(strings.NewReader("4\tfour\n5\tfive"))
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 5}, ids)

	ids, err = readIDs(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = readIDs(strings.NewReader("4\tfour\n\n"))
	assert.ErrorContains(t, err, "line 2")
}
