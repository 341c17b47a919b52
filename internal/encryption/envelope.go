package encryption

import (
	"fmt"
	"strings"
)

// Format selects the on-disk envelope layout.
type Format byte

const (
	// FormatRaw is nonce || ciphertext || tag with no header.
	// The algorithm has to be supplied out-of-band when opening.
	FormatRaw Format = iota
	// FormatTagged prefixes the raw envelope with a single algorithm byte.
	FormatTagged
)

// ParseFormat resolves "raw" or "tagged".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "raw":
		return FormatRaw, nil
	case "tagged":
		return FormatTagged, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

func (f Format) String() string {
	if f == FormatTagged {
		return "tagged"
	}

	return "raw"
}

// headerSize is the number of bytes the format places before the raw envelope.
func (f Format) headerSize() int {
	if f == FormatTagged {
		return 1
	}

	return 0
}

// Seal encrypts plaintext and lays the result out in format f.
func (p *Pairing) Seal(plaintext []byte, f Format) ([]byte, error) {
	sealed, err := p.seal(plaintext)
	if err != nil {
		return nil, err
	}

	if f != FormatTagged {
		return sealed, nil
	}

	return append([]byte{byte(p.algorithm)}, sealed...), nil
}

// Open reverses Seal. Any failure to authenticate yields ErrAuthentication,
// except a tagged envelope naming another algorithm, which yields ErrAlgorithmMismatch.
func (p *Pairing) Open(envelope []byte, f Format) ([]byte, error) {
	if f == FormatTagged {
		if len(envelope) < f.headerSize() {
			return nil, fmt.Errorf("%w: empty envelope", ErrAuthentication)
		}

		if got := Algorithm(envelope[0]); got != p.algorithm {
			return nil, fmt.Errorf("%w: header names %s, configured %s", ErrAlgorithmMismatch, got, p.algorithm)
		}

		envelope = envelope[f.headerSize():]
	}

	return p.open(envelope)
}

// EnvelopeSize returns the size of the envelope sealing n plaintext bytes.
func (p *Pairing) EnvelopeSize(n int, f Format) int {
	return f.headerSize() + p.algorithm.Overhead() + n
}
