package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	aeadsubtle "github.com/tink-crypto/tink-go/v2/aead/subtle"
	"github.com/tink-crypto/tink-go/v2/tink"
)

// Pairing binds a key to the algorithm it is used with.
// It can only be built through NewPairing, which rejects keys the algorithm cannot take.
type Pairing struct {
	algorithm Algorithm
	aead      tink.AEAD
}

// NewPairing checks the key length against the algorithm and prepares the cipher.
// The key bytes are not retained outside the cipher state.
func NewPairing(algorithm Algorithm, key []byte) (*Pairing, error) {
	if !algorithm.AcceptsKey(len(key)) {
		return nil, fmt.Errorf("%w: %s takes %v bytes, got %d",
			ErrKeySize, algorithm, algorithm.KeySizes(), len(key))
	}

	var (
		primitive tink.AEAD
		err       error
	)

	switch algorithm {
	case AESGCM:
		primitive, err = newGCM(key)
	case ChaCha20Poly1305:
		primitive, err = aeadsubtle.NewChaCha20Poly1305(key)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algorithm)
	}

	if err != nil {
		return nil, fmt.Errorf("creating %s cipher: %w", algorithm, err)
	}

	return &Pairing{algorithm: algorithm, aead: primitive}, nil
}

// Algorithm returns the paired algorithm.
func (p *Pairing) Algorithm() Algorithm {
	return p.algorithm
}

// seal encrypts plaintext under a fresh nonce and returns nonce || ciphertext || tag.
func (p *Pairing) seal(plaintext []byte) ([]byte, error) {
	sealed, err := p.aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("sealing with %s: %w", p.algorithm, err)
	}

	return sealed, nil
}

// open authenticates and decrypts nonce || ciphertext || tag.
func (p *Pairing) open(envelope []byte) ([]byte, error) {
	if len(envelope) < p.algorithm.Overhead() {
		return nil, fmt.Errorf("%w: envelope of %d bytes is shorter than %d",
			ErrAuthentication, len(envelope), p.algorithm.Overhead())
	}

	plaintext, err := p.aead.Decrypt(envelope, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	return plaintext, nil
}

// gcm adapts crypto/cipher's AES-GCM to tink.AEAD with a random nonce prefix.
// Tink's own AES-GCM only takes 128 and 256-bit keys.
type gcm struct {
	aead cipher.AEAD
}

func newGCM(key []byte) (*gcm, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating block cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, gcmNonceSize)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	return &gcm{aead: aead}, nil
}

func (g *gcm) Encrypt(plaintext, associatedData []byte) ([]byte, error) {
	nonce := make([]byte, gcmNonceSize, gcmNonceSize+len(plaintext)+gcmTagSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	return g.aead.Seal(nonce, nonce, plaintext, associatedData), nil
}

func (g *gcm) Decrypt(ciphertext, associatedData []byte) ([]byte, error) {
	if len(ciphertext) < gcmNonceSize+gcmTagSize {
		return nil, ErrAuthentication
	}

	nonce, sealed := ciphertext[:gcmNonceSize], ciphertext[gcmNonceSize:]

	return g.aead.Open(nil, nonce, sealed, associatedData)
}
