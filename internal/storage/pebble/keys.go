package pebblestore

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - c/{collection}/e/{key}   (entries; key is the caller's 8-byte id)
// - c/{collection}/seq       (last assigned sequence, 8 bytes big-endian)

var (
	collPrefix = []byte("c/")
	entrySeg   = []byte("/e/")
	seqSuffix  = []byte("/seq")
)

func keyEntryPrefix(collection string) []byte {
	k := make([]byte, 0, len(collPrefix)+len(collection)+len(entrySeg))
	k = append(k, collPrefix...)
	k = append(k, collection...)
	k = append(k, entrySeg...)
	return k
}

func (db *DB) entryKey(key []byte) []byte {
	k := make([]byte, 0, len(db.entryLow)+len(key))
	k = append(k, db.entryLow...)
	k = append(k, key...)
	return k
}

func keySequence(collection string) []byte {
	k := make([]byte, 0, len(collPrefix)+len(collection)+len(seqSuffix))
	k = append(k, collPrefix...)
	k = append(k, collection...)
	k = append(k, seqSuffix...)
	return k
}

// prefixEnd returns the smallest key greater than every key with prefix p.
func prefixEnd(p []byte) []byte {
	end := append([]byte(nil), p...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
