package encryption

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithm identifies an authenticated cipher.
type Algorithm byte

const (
	// AESGCM is AES in Galois/Counter Mode with a 128, 192 or 256-bit key.
	AESGCM Algorithm = iota + 1
	// ChaCha20Poly1305 is the IETF ChaCha20-Poly1305 construction with a 256-bit key.
	ChaCha20Poly1305
)

const (
	gcmNonceSize = 12
	gcmTagSize   = 16
)

// Algorithms lists the supported algorithms.
func Algorithms() []Algorithm {
	return []Algorithm{AESGCM, ChaCha20Poly1305}
}

// ParseAlgorithm resolves a name such as "aes-gcm" or "chacha20-poly1305".
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "aes-gcm", "aesgcm", "aes":
		return AESGCM, nil
	case "chacha20-poly1305", "chacha20poly1305", "chachapoly", "chacha":
		return ChaCha20Poly1305, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

func (a Algorithm) String() string {
	switch a {
	case AESGCM:
		return "aes-gcm"
	case ChaCha20Poly1305:
		return "chacha20-poly1305"
	default:
		return fmt.Sprintf("algorithm(%d)", byte(a))
	}
}

// NonceSize is the length of the nonce prefix of an envelope.
func (a Algorithm) NonceSize() int {
	if a == ChaCha20Poly1305 {
		return chacha20poly1305.NonceSize
	}

	return gcmNonceSize
}

// TagSize is the length of the authentication tag suffix of an envelope.
func (a Algorithm) TagSize() int {
	if a == ChaCha20Poly1305 {
		return chacha20poly1305.Overhead
	}

	return gcmTagSize
}

// Overhead is the number of bytes an envelope adds to the plaintext.
func (a Algorithm) Overhead() int {
	return a.NonceSize() + a.TagSize()
}

// KeySizes lists the accepted key lengths in bytes.
func (a Algorithm) KeySizes() []int {
	switch a {
	case AESGCM:
		return []int{16, 24, 32} //nolint:mnd
	case ChaCha20Poly1305:
		return []int{chacha20poly1305.KeySize}
	default:
		return nil
	}
}

// AcceptsKey reports whether a key of n bytes can be used with the algorithm.
func (a Algorithm) AcceptsKey(n int) bool {
	for _, size := range a.KeySizes() {
		if size == n {
			return true
		}
	}

	return false
}
