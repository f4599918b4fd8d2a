package history

import "encoding/binary"

// KeySize is the length of an encoded id.
const KeySize = 8

// Key encodes id as 8 bytes big-endian so byte order matches numeric order.
func Key(id uint64) []byte {
	var b [KeySize]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}

// ID decodes a key produced by Key. Short keys are left-padded with zeros.
func ID(key []byte) uint64 {
	if len(key) >= KeySize {
		return binary.BigEndian.Uint64(key[:KeySize])
	}
	var b [KeySize]byte
	copy(b[KeySize-len(key):], key)
	return binary.BigEndian.Uint64(b[:])
}
