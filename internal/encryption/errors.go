package encryption

import "errors"

var (
	// ErrAuthentication is returned when an envelope cannot be opened.
	// It covers tampering, truncation, a wrong key and a wrong algorithm alike.
	ErrAuthentication = errors.New("authentication failed")
	// ErrAlgorithmMismatch is returned when a tagged envelope names another algorithm.
	ErrAlgorithmMismatch = errors.New("envelope was sealed with a different algorithm")
	// ErrKeySize is returned when a key length does not fit the chosen algorithm.
	ErrKeySize = errors.New("key size not supported by algorithm")
	// ErrUnknownAlgorithm is returned for an algorithm name that is not supported.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	// ErrUnknownFormat is returned for an envelope format name that is not supported.
	ErrUnknownFormat = errors.New("unknown envelope format")
	// ErrMissingSuffix is returned when decrypting a file that lacks the encrypted suffix.
	ErrMissingSuffix = errors.New("file does not carry the encrypted suffix")
	// ErrBatch is returned when one or more files of a batch failed.
	ErrBatch = errors.New("batch failed")
)
