// Package history is the clipboard history engine.
//
// A Store keeps clipboard payloads in a kv.Store keyed by an 8-byte
// big-endian id drawn from the collection's persistent sequence, so cursor
// order is insertion order. Put deduplicates against the newest entries and
// evicts the oldest ones beyond Options.MaxItems inside a single transaction.
//
// Basic usage:
//
//	h := history.New(store, history.Options{MaxItems: 750, MaxDedupeSearch: 100})
//	res, err := h.Put(ctx, payload)
//	for e, err := range h.Entries(ctx) {
//	    ...
//	}
package history
