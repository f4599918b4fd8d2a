// Package memstore is an in-memory implementation of kv.Store.
//
// Writers work on a private copy of the collection and publish it on commit;
// readers hold the copy that was current when they began. It is used by tests
// and by the "memory" runtime backend.
package memstore
