// Package boltstore implements kv.Store on a single bbolt bucket.
//
// The bucket name defaults to "b", the layout written by earlier cliphist
// releases, so an existing database file can be opened directly. The
// collection's sequence counter is the bucket sequence.
package boltstore
