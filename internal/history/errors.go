package history

import "errors"

var (
	// ErrNotFound is returned by Lookup when no entry has the id.
	ErrNotFound = errors.New("key not found")
	// ErrInvalidID is returned by ParseID for lines without a numeric id prefix.
	ErrInvalidID = errors.New("invalid id")
	// ErrEmptyQuery is returned by DeleteMatching for an empty substring.
	ErrEmptyQuery = errors.New("please provide a query")
	// ErrInvalidFilter is returned by CompileFilter when the expression does not compile.
	ErrInvalidFilter = errors.New("invalid filter")
)
