package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadHeader indicates a header whose counts are inconsistent.
	ErrBadHeader = errors.New("format: inconsistent header")
)
