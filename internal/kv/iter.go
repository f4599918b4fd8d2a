package kv

import "iter"

// Ascend yields the cursor's pairs from the smallest key upward. Each range
// over the returned sequence restarts from the first key.
func Ascend(c Cursor) iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Descend yields the cursor's pairs from the largest key downward. Each range
// over the returned sequence restarts from the last key.
func Descend(c Cursor) iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Keys collects copies of the keys yielded by seq for which keep returns true.
// A nil keep collects every key.
func Keys(seq iter.Seq2[[]byte, []byte], keep func(k, v []byte) bool) [][]byte {
	var out [][]byte
	for k, v := range seq {
		if keep == nil || keep(k, v) {
			out = append(out, append([]byte(nil), k...))
		}
	}
	return out
}
