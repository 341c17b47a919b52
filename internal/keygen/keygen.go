package keygen

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/idelchi/fcrypt/internal/fileutil"
)

const bitsPerByte = 8

// Sizes returns the supported key sizes in bits.
func Sizes() []int {
	return []int{128, 192, 256}
}

// ValidLength reports whether n is a supported key length in bytes.
func ValidLength(n int) bool {
	for _, bits := range Sizes() {
		if n*bitsPerByte == bits {
			return true
		}
	}

	return false
}

// Generate returns bits/8 cryptographically random bytes.
func Generate(bits int) ([]byte, error) {
	if bits%bitsPerByte != 0 || !ValidLength(bits/bitsPerByte) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, bits)
	}

	key := make([]byte, bits/bitsPerByte)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	return key, nil
}

// Write persists the raw key bytes at path.
// The file is either written completely or not at all.
func Write(fsys afero.Fs, path string, key []byte) error {
	if !ValidLength(len(key)) {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidLength, len(key))
	}

	if _, err := fileutil.WriteFile(fsys, path, key, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("saving key file: %w", err)
	}

	return nil
}

// Load reads a raw key file and checks its length.
func Load(fsys afero.Fs, path string) ([]byte, error) {
	key, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	if !ValidLength(len(key)) {
		return nil, fmt.Errorf("%w: %q holds %d bytes", ErrInvalidLength, path, len(key))
	}

	return key, nil
}
