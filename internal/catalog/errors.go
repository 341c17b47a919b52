package catalog

import "errors"

var (
	// ErrMismatch is returned by Verify when files differ from or are missing against the catalog.
	ErrMismatch = errors.New("catalog: directory does not match")
	// ErrInvalidRecord is returned when a catalog entry lacks a file name or escapes the root.
	ErrInvalidRecord = errors.New("catalog: invalid record")
)
