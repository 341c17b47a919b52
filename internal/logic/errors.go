package logic

import "errors"

var (
	// ErrNotExist is returned when a target path is missing.
	ErrNotExist = errors.New("does not exist")
	// ErrNoMatch is returned by compare when the files differ.
	ErrNoMatch = errors.New("hashes do not match")
	// ErrUnmatchedPattern is returned by check when a pattern selects nothing.
	ErrUnmatchedPattern = errors.New("pattern matched no files")
	// ErrNoPatterns is returned by check when there is nothing to check.
	ErrNoPatterns = errors.New("no exclude patterns to check")
)
