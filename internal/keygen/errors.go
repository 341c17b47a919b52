package keygen

import "errors"

var (
	// ErrInvalidSize is returned when a key size other than 128, 192 or 256 bits is requested.
	ErrInvalidSize = errors.New("keygen: key size must be 128, 192 or 256 bits")
	// ErrInvalidLength is returned when a key file does not hold 16, 24 or 32 bytes.
	ErrInvalidLength = errors.New("keygen: key must be 16, 24 or 32 bytes")
)
