package filter

import "errors"

var (
	// ErrPattern is returned for a malformed glob pattern.
	ErrPattern = errors.New("invalid pattern")
	// ErrNotExist is returned when a target path does not exist.
	ErrNotExist = errors.New("does not exist")
)
