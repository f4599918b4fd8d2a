// Package pebblestore implements kv.Store on Pebble with an fsync policy,
// snapshot reads, batch-backed write transactions, and minimal metrics hooks.
//
// A database holds one collection. Entries live under c/{collection}/e/ and
// the collection's sequence counter under c/{collection}/seq, so the counter
// commits atomically with the writes that consume it.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./db",
//	    Fsync:   pebblestore.FsyncModeAlways,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	err = kv.Update(ctx, db, func(tx kv.Tx) error {
//	    seq, err := tx.NextSequence()
//	    if err != nil {
//	        return err
//	    }
//	    return tx.Put(key(seq), value)
//	})
package pebblestore
