package listing

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"iter"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/cliphist/internal/history"
	"github.com/rzbill/cliphist/internal/preview"
	memstore "github.com/rzbill/cliphist/internal/storage/memory"
)

func seed(t *testing.T, payloads ...[]byte) *history.Store {
	t.Helper()
	h := history.New(memstore.New(), history.DefaultOptions())
	for _, p := range payloads {
		res, err := h.Put(context.Background(), p)
		require.NoError(t, err)
		require.True(t, res.Stored())
	}
	return h
}

func TestWriteGolden(t *testing.T) {
	h := seed(t,
		[]byte("hello   world"),
		[]byte("  multi\nline\ttext  "),
		[]byte("the quick brown fox jumps over the lazy dog"),
		[]byte("naïve café"),
	)
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, h, Options{Width: 20}))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "list_width_20", buf.Bytes())
}

func TestLinesIDsStrictlyDecrease(t *testing.T) {
	h := seed(t, []byte("a"), []byte("b"), []byte("a"), []byte("c"))
	var prev uint64
	first := true
	for line, err := range Lines(context.Background(), h, Options{Width: 100}) {
		require.NoError(t, err)
		id, err := history.ParseID(line)
		require.NoError(t, err)
		if !first {
			assert.Less(t, id, prev)
		}
		prev, first = id, false
	}
}

func TestLinesImageAndFilter(t *testing.T) {
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, 4, 3))))
	h := seed(t, []byte("plain"), img.Bytes())

	var lines []string
	for line, err := range Lines(context.Background(), h, Options{Width: 100}) {
		require.NoError(t, err)
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "2\t[[ binary data "+preview.HumanSize(img.Len())+" png 4x3 ]]", lines[0])
	assert.Equal(t, "1\tplain", lines[1])

	f, err := history.CompileFilter("!image")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, h, Options{Width: 100, Filter: f}))
	assert.Equal(t, "1\tplain\n", buf.String())
}

func TestWriteZeroWidth(t *testing.T) {
	h := seed(t, []byte("hello world"), []byte("x"))
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, h, Options{Width: 0}))
	assert.Equal(t, "2\t…\n1\t…\n", buf.String())
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, seed(t), Options{Width: 100}))
	assert.Empty(t, buf.String())
}

type failingSource struct{ err error }

func (f failingSource) Entries(context.Context) iter.Seq2[history.Entry, error] {
	return func(yield func(history.Entry, error) bool) {
		if !yield(history.Entry{ID: 1, Payload: []byte("x")}, nil) {
			return
		}
		yield(history.Entry{}, f.err)
	}
}

func TestWritePropagatesSourceError(t *testing.T) {
	boom := errors.New("boom")
	var buf bytes.Buffer
	err := Write(context.Background(), &buf, failingSource{err: boom}, Options{Width: 100})
	require.ErrorIs(t, err, boom)

	_, err = Search(context.Background(), failingSource{err: boom}, "x", Options{Width: 100})
	require.ErrorIs(t, err, boom)
}

func TestSearch(t *testing.T) {
	h := seed(t,
		[]byte("git commit -m fix"),
		[]byte("groceries: milk, eggs"),
		[]byte("git status"),
		[]byte("unrelated"),
	)
	ctx := context.Background()

	got, err := Search(ctx, h, "git", Options{Width: 100})
	require.NoError(t, err)
	// both start with "git"; the shorter target scores higher
	require.Len(t, got, 2)
	assert.Equal(t, "3\tgit status", got[0])
	assert.Equal(t, "1\tgit commit -m fix", got[1])

	got, err = Search(ctx, h, "git", Options{Width: 100, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"3\tgit status"}, got)

	got, err = Search(ctx, h, "zzz", Options{Width: 100})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Search(ctx, h, "", Options{Width: 100})
	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Equal(t, "4\tunrelated", got[0])
}

func TestSearchPrefersTighterMatch(t *testing.T) {
	h := seed(t, []byte("e-x-p-o-r-t"), []byte("export PATH"))
	got, err := Search(context.Background(), h, "export", Options{Width: 100})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "2\texport PATH", got[0])
}

func TestSearchTiesNewestFirst(t *testing.T) {
	h := seed(t, []byte("abc x"), []byte("abc y"), []byte("abc z"))
	got, err := Search(context.Background(), h, "abc", Options{Width: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"3\tabc z", "2\tabc y", "1\tabc x"}, got)
}
