package history

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/rzbill/cliphist/internal/kv"
	logpkg "github.com/rzbill/cliphist/pkg/log"
)

// MaxSize is the largest payload Put will store, in bytes.
const MaxSize = 5_000_000

const (
	DefaultMaxItems        = 750
	DefaultMaxDedupeSearch = 100
)

// Entry is one stored clipboard payload.
type Entry struct {
	ID      uint64
	Payload []byte
}

// SkipReason explains why Put stored nothing.
type SkipReason int

const (
	SkipNone SkipReason = iota
	// SkipOversized means the payload exceeded MaxSize.
	SkipOversized
	// SkipBlank means the payload was empty or only ASCII whitespace.
	SkipBlank
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipOversized:
		return "oversized"
	case SkipBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// Result describes the outcome of Put.
type Result struct {
	// ID is the id assigned to the payload. Zero when skipped.
	ID      uint64
	Skipped SkipReason
	// Deduplicated counts older identical entries removed.
	Deduplicated int
	// Evicted counts the oldest entries removed to honor MaxItems.
	Evicted int
}

// Stored reports whether the payload was written.
func (r Result) Stored() bool { return r.Skipped == SkipNone }

// Eviction describes one batch of entries removed by the MaxItems bound.
type Eviction struct {
	FirstID uint64
	LastID  uint64
	Count   int
}

// EvictionHook observes evictions after the transaction that made them commits.
type EvictionHook func(Eviction)

// Options configures a Store.
type Options struct {
	// MaxItems bounds the number of entries kept after each Put. Negative
	// means DefaultMaxItems; zero keeps nothing.
	MaxItems int
	// MaxDedupeSearch is how far back from the newest entry Put looks for an
	// identical payload. The scan covers MaxDedupeSearch+1 entries. Negative
	// means DefaultMaxDedupeSearch.
	MaxDedupeSearch int
	Logger          logpkg.Logger
	Evictions       EvictionHook
}

// DefaultOptions returns the limits used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{MaxItems: DefaultMaxItems, MaxDedupeSearch: DefaultMaxDedupeSearch}
}

// Store is the clipboard history over a kv.Store. It holds no state of its
// own; every operation is one transaction.
type Store struct {
	db     kv.Store
	opts   Options
	logger logpkg.Logger
}

// New returns a history backed by db.
func New(db kv.Store, opts Options) *Store {
	if opts.MaxItems < 0 {
		opts.MaxItems = DefaultMaxItems
	}
	if opts.MaxDedupeSearch < 0 {
		opts.MaxDedupeSearch = DefaultMaxDedupeSearch
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	return &Store{db: db, opts: opts, logger: logger.WithComponent("history")}
}

// Options returns the effective limits.
func (s *Store) Options() Options { return s.opts }

// Put stores payload as the newest entry. Oversized and blank payloads are
// accepted without being stored; Result.Skipped says which.
func (s *Store) Put(ctx context.Context, payload []byte) (Result, error) {
	if len(payload) > MaxSize {
		s.logger.Debug("skipping oversized payload", logpkg.Int("size", len(payload)), logpkg.Int("max", MaxSize))
		return Result{Skipped: SkipOversized}, nil
	}
	if isBlank(payload) {
		s.logger.Debug("skipping blank payload", logpkg.Int("size", len(payload)))
		return Result{Skipped: SkipBlank}, nil
	}

	var (
		res     Result
		evicted []uint64
	)
	err := kv.Update(ctx, s.db, func(tx kv.Tx) error {
		dups, err := s.deduplicate(tx, payload)
		if err != nil {
			return fmt.Errorf("deduplicating: %w", err)
		}
		id, err := tx.NextSequence()
		if err != nil {
			return fmt.Errorf("getting next sequence: %w", err)
		}
		if err := tx.Put(Key(id), payload); err != nil {
			return fmt.Errorf("put value: %w", err)
		}
		evicted, err = s.trimLength(tx)
		if err != nil {
			return fmt.Errorf("trimming length: %w", err)
		}
		res = Result{ID: id, Deduplicated: dups, Evicted: len(evicted)}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.logger.Debug("stored entry",
		logpkg.Uint64("id", res.ID),
		logpkg.Int("size", len(payload)),
		logpkg.Int("deduplicated", res.Deduplicated),
		logpkg.Int("evicted", res.Evicted))
	if len(evicted) > 0 && s.opts.Evictions != nil {
		s.opts.Evictions(Eviction{FirstID: evicted[0], LastID: evicted[len(evicted)-1], Count: len(evicted)})
	}
	return res, nil
}

// deduplicate removes entries equal to payload among the newest
// MaxDedupeSearch+1 entries.
func (s *Store) deduplicate(tx kv.Tx, payload []byte) (int, error) {
	c, err := tx.Cursor()
	if err != nil {
		return 0, err
	}
	seen := 0
	var dups [][]byte
	for k, v := range kv.Descend(c) {
		if seen > s.opts.MaxDedupeSearch {
			break
		}
		if bytes.Equal(v, payload) {
			dups = append(dups, append([]byte(nil), k...))
		}
		seen++
	}
	if err := c.Close(); err != nil {
		return 0, err
	}
	return len(dups), deleteKeys(tx, dups)
}

// trimLength deletes the oldest entries while the collection exceeds MaxItems
// and returns their ids in ascending order.
func (s *Store) trimLength(tx kv.Tx) ([]uint64, error) {
	count, err := kv.Count(tx)
	if err != nil {
		return nil, err
	}
	excess := count - s.opts.MaxItems
	if excess <= 0 {
		return nil, nil
	}
	c, err := tx.Cursor()
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, 0, excess)
	for k := range kv.Ascend(c) {
		if len(keys) == excess {
			break
		}
		keys = append(keys, append([]byte(nil), k...))
	}
	if err := c.Close(); err != nil {
		return nil, err
	}
	if err := deleteKeys(tx, keys); err != nil {
		return nil, err
	}
	ids := make([]uint64, len(keys))
	for i, k := range keys {
		ids[i] = ID(k)
	}
	return ids, nil
}

// Lookup returns a copy of the payload stored under id.
func (s *Store) Lookup(ctx context.Context, id uint64) ([]byte, error) {
	var out []byte
	err := kv.View(ctx, s.db, func(tx kv.Tx) error {
		v, err := tx.Get(Key(id))
		if errors.Is(err, kv.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

// Delete removes the given ids in one transaction. Absent ids are ignored.
func (s *Store) Delete(ctx context.Context, ids ...uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return kv.Update(ctx, s.db, func(tx kv.Tx) error {
		for _, id := range ids {
			if err := tx.Delete(Key(id)); err != nil {
				return fmt.Errorf("delete %d: %w", id, err)
			}
		}
		return nil
	})
}

// DeleteLast removes the newest entry. It reports the removed id and whether
// there was anything to remove.
func (s *Store) DeleteLast(ctx context.Context) (uint64, bool, error) {
	var (
		id    uint64
		found bool
	)
	err := kv.Update(ctx, s.db, func(tx kv.Tx) error {
		c, err := tx.Cursor()
		if err != nil {
			return err
		}
		var last []byte
		if k, _ := c.Last(); k != nil {
			last = append([]byte(nil), k...)
		}
		if err := c.Close(); err != nil {
			return err
		}
		if last == nil {
			return nil
		}
		id, found = ID(last), true
		return tx.Delete(last)
	})
	if err != nil {
		return 0, false, err
	}
	return id, found, nil
}

// DeleteMatching removes every entry whose payload contains substring and
// returns how many were removed.
func (s *Store) DeleteMatching(ctx context.Context, substring []byte) (int, error) {
	if len(substring) == 0 {
		return 0, ErrEmptyQuery
	}
	return s.DeleteFunc(ctx, func(e Entry) bool {
		return bytes.Contains(e.Payload, substring)
	})
}

// DeleteFunc removes every entry for which match returns true. Entries are
// visited oldest first; Payload is only valid during the call.
func (s *Store) DeleteFunc(ctx context.Context, match func(Entry) bool) (int, error) {
	var n int
	err := kv.Update(ctx, s.db, func(tx kv.Tx) error {
		c, err := tx.Cursor()
		if err != nil {
			return err
		}
		keys := kv.Keys(kv.Ascend(c), func(k, v []byte) bool {
			return match(Entry{ID: ID(k), Payload: v})
		})
		if err := c.Close(); err != nil {
			return err
		}
		n = len(keys)
		return deleteKeys(tx, keys)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Wipe removes every entry. The id sequence is kept, so ids are not reused.
func (s *Store) Wipe(ctx context.Context) (int, error) {
	n, err := s.DeleteFunc(ctx, func(Entry) bool { return true })
	if err != nil {
		return 0, err
	}
	s.logger.Debug("wiped history", logpkg.Int("deleted", n))
	return n, nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := kv.View(ctx, s.db, func(tx kv.Tx) (err error) {
		n, err = kv.Count(tx)
		return err
	})
	return n, err
}

// Entries yields entries newest first from a read snapshot taken when the
// range starts. Each range opens a fresh snapshot. Payload is only valid
// until the next iteration; copy it to retain. A failure is yielded once as
// the error of a zero Entry and ends the sequence.
func (s *Store) Entries(ctx context.Context) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		stopped := false
		err := kv.View(ctx, s.db, func(tx kv.Tx) (err error) {
			c, err := tx.Cursor()
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, c.Close()) }()
			for k, v := range kv.Descend(c) {
				if err := ctx.Err(); err != nil {
					return err
				}
				if !yield(Entry{ID: ID(k), Payload: v}, nil) {
					stopped = true
					return nil
				}
			}
			return nil
		})
		if err != nil && !stopped {
			yield(Entry{}, err)
		}
	}
}

func deleteKeys(tx kv.Tx, keys [][]byte) error {
	for _, k := range keys {
		if err := tx.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// isBlank reports whether every byte is ASCII whitespace. Empty is blank.
func isBlank(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\f', '\r':
		default:
			return false
		}
	}
	return true
}
