package memstore

import "errors"

var errClosed = errors.New("memstore: store is closed")
