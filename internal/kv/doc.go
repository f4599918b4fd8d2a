// Package kv defines the ordered key-value contract the history engine runs
// on: a single named collection with read/write transactions, a persistent
// per-collection sequence, and bidirectional cursors over binary keys in
// lexicographic order.
//
// Backends live under internal/storage (pebble, bolt, memory). Algorithms are
// written against Store/Tx/Cursor and the Ascend/Descend iterators so they can
// be tested against the in-memory backend.
//
//	err := kv.Update(ctx, db, func(tx kv.Tx) error {
//	    seq, err := tx.NextSequence()
//	    if err != nil {
//	        return err
//	    }
//	    return tx.Put(key(seq), value)
//	})
package kv
