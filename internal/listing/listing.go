// Package listing renders the history as preview lines, newest first, and
// fuzzy-searches those previews.
package listing

import (
	"bufio"
	"context"
	"io"
	"iter"
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/rzbill/cliphist/internal/history"
	"github.com/rzbill/cliphist/internal/preview"
)

// Source yields entries newest first. *history.Store implements it.
type Source interface {
	Entries(ctx context.Context) iter.Seq2[history.Entry, error]
}

// Options controls rendering.
type Options struct {
	// Width is the maximum preview length in runes. Zero leaves only the
	// ellipsis of non-empty text previews.
	Width int
	// Filter restricts output to matching entries. Nil keeps everything.
	Filter *history.Filter
	// Limit caps Search results. Zero means no limit.
	Limit int
}

// Lines yields one "{id}\t{preview}" line per entry, newest first. Each range
// reads from its own snapshot.
func Lines(ctx context.Context, src Source, opts Options) iter.Seq2[string, error] {
	width := opts.Width
	return func(yield func(string, error) bool) {
		for e, err := range src.Entries(ctx) {
			if err != nil {
				yield("", err)
				return
			}
			if !opts.Filter.Match(e) {
				continue
			}
			if !yield(preview.Format(e.ID, e.Payload, width), nil) {
				return
			}
		}
	}
}

// Write writes every line from Lines to w, each terminated by a newline.
func Write(ctx context.Context, w io.Writer, src Source, opts Options) error {
	bw := bufio.NewWriter(w)
	for line, err := range Lines(ctx, src, opts) {
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

type candidate struct {
	id   uint64
	line string
	body string
}

type candidates []candidate

func (c candidates) String(i int) string { return c[i].body }
func (c candidates) Len() int            { return len(c) }

// Search returns the listing lines whose preview text fuzzy-matches query,
// best match first. Equal scores keep newest first. An empty query returns
// every line in listing order.
func Search(ctx context.Context, src Source, query string, opts Options) ([]string, error) {
	width := opts.Width
	var all candidates
	for e, err := range src.Entries(ctx) {
		if err != nil {
			return nil, err
		}
		if !opts.Filter.Match(e) {
			continue
		}
		body := preview.Body(e.Payload, width)
		all = append(all, candidate{
			id:   e.ID,
			line: preview.Format(e.ID, e.Payload, width),
			body: body,
		})
	}

	var picked candidates
	if query == "" {
		picked = all
	} else {
		matches := fuzzy.FindFrom(query, all)
		slices.SortStableFunc(matches, func(a, b fuzzy.Match) int {
			if a.Score != b.Score {
				return b.Score - a.Score
			}
			return compareDesc(all[a.Index].id, all[b.Index].id)
		})
		picked = make(candidates, 0, len(matches))
		for _, m := range matches {
			picked = append(picked, all[m.Index])
		}
	}

	if opts.Limit > 0 && len(picked) > opts.Limit {
		picked = picked[:opts.Limit]
	}
	out := make([]string, len(picked))
	for i, c := range picked {
		out[i] = c.line
	}
	return out, nil
}

func compareDesc(a, b uint64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
