package encryption_test

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/fcrypt/internal/encryption"
	"github.com/idelchi/fcrypt/internal/keygen"
)

func pairing(t *testing.T, algorithm encryption.Algorithm, bits int) *encryption.Pairing {
	t.Helper()

	key, err := keygen.Generate(bits)
	require.NoError(t, err)

	p, err := encryption.NewPairing(algorithm, key)
	require.NoError(t, err)

	return p
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()

	data := make([]byte, n)
	_, err := rand.Read(data)
	require.NoError(t, err)

	return data
}

func TestNewPairing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		algorithm encryption.Algorithm
		keyLen    int
		wantErr   bool
	}{
		{encryption.AESGCM, 16, false},
		{encryption.AESGCM, 24, false},
		{encryption.AESGCM, 32, false},
		{encryption.AESGCM, 20, true},
		{encryption.ChaCha20Poly1305, 32, false},
		{encryption.ChaCha20Poly1305, 16, true},
		{encryption.ChaCha20Poly1305, 24, true},
		{encryption.Algorithm(9), 32, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.algorithm, tt.keyLen), func(t *testing.T) {
			t.Parallel()

			_, err := encryption.NewPairing(tt.algorithm, make([]byte, tt.keyLen))
			if tt.wantErr {
				require.ErrorIs(t, err, encryption.ErrKeySize)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"aes-gcm", "AES", "aesgcm"} {
		alg, err := encryption.ParseAlgorithm(name)
		require.NoError(t, err)
		assert.Equal(t, encryption.AESGCM, alg)
	}

	for _, name := range []string{"chacha20-poly1305", "chachapoly", " ChaCha "} {
		alg, err := encryption.ParseAlgorithm(name)
		require.NoError(t, err)
		assert.Equal(t, encryption.ChaCha20Poly1305, alg)
	}

	_, err := encryption.ParseAlgorithm("des")
	require.ErrorIs(t, err, encryption.ErrUnknownAlgorithm)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	combos := []struct {
		algorithm encryption.Algorithm
		bits      int
	}{
		{encryption.AESGCM, 128},
		{encryption.AESGCM, 192},
		{encryption.AESGCM, 256},
		{encryption.ChaCha20Poly1305, 256},
	}

	plaintexts := map[string][]byte{
		"empty":  {},
		"short":  []byte("abc"),
		"binary": randomBytes(t, 4096),
		"large":  randomBytes(t, 1<<20),
	}

	for _, combo := range combos {
		for _, format := range []encryption.Format{encryption.FormatRaw, encryption.FormatTagged} {
			p := pairing(t, combo.algorithm, combo.bits)

			for name, plaintext := range plaintexts {
				t.Run(fmt.Sprintf("%s-%d/%s/%s", combo.algorithm, combo.bits, format, name), func(t *testing.T) {
					t.Parallel()

					sealed, err := p.Seal(plaintext, format)
					require.NoError(t, err)
					assert.Len(t, sealed, p.EnvelopeSize(len(plaintext), format))

					opened, err := p.Open(sealed, format)
					require.NoError(t, err)
					assert.True(t, bytes.Equal(plaintext, opened))
				})
			}
		}
	}
}

func TestSeal_FreshNonce(t *testing.T) {
	t.Parallel()

	p := pairing(t, encryption.AESGCM, 256)

	a, err := p.Seal([]byte("same input"), encryption.FormatRaw)
	require.NoError(t, err)

	b, err := p.Seal([]byte("same input"), encryption.FormatRaw)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestOpen_Tampered(t *testing.T) {
	t.Parallel()

	for _, algorithm := range encryption.Algorithms() {
		t.Run(algorithm.String(), func(t *testing.T) {
			t.Parallel()

			p := pairing(t, algorithm, 256)

			sealed, err := p.Seal([]byte("attack at dawn"), encryption.FormatRaw)
			require.NoError(t, err)

			for i := range sealed {
				tampered := bytes.Clone(sealed)
				tampered[i] ^= 0x01

				_, err := p.Open(tampered, encryption.FormatRaw)
				require.ErrorIs(t, err, encryption.ErrAuthentication, "byte %d", i)
			}

			for n := range len(sealed) {
				_, err := p.Open(sealed[:n], encryption.FormatRaw)
				require.ErrorIs(t, err, encryption.ErrAuthentication, "truncated to %d", n)
			}
		})
	}
}

func TestOpen_TamperedTagged(t *testing.T) {
	t.Parallel()

	for _, algorithm := range encryption.Algorithms() {
		t.Run(algorithm.String(), func(t *testing.T) {
			t.Parallel()

			p := pairing(t, algorithm, 256)

			sealed, err := p.Seal([]byte("attack at dawn"), encryption.FormatTagged)
			require.NoError(t, err)

			for i := range sealed {
				tampered := bytes.Clone(sealed)
				tampered[i] ^= 0x01

				_, err := p.Open(tampered, encryption.FormatTagged)

				if i == 0 {
					require.ErrorIs(t, err, encryption.ErrAlgorithmMismatch, "algorithm byte")

					continue
				}

				require.ErrorIs(t, err, encryption.ErrAuthentication, "byte %d", i)
			}

			for n := range len(sealed) {
				_, err := p.Open(sealed[:n], encryption.FormatTagged)
				require.ErrorIs(t, err, encryption.ErrAuthentication, "truncated to %d", n)
			}
		})
	}
}

func TestOpen_WrongKeyOrAlgorithm(t *testing.T) {
	t.Parallel()

	key, err := keygen.Generate(256)
	require.NoError(t, err)

	gcm, err := encryption.NewPairing(encryption.AESGCM, key)
	require.NoError(t, err)

	chacha, err := encryption.NewPairing(encryption.ChaCha20Poly1305, key)
	require.NoError(t, err)

	other := pairing(t, encryption.AESGCM, 256)

	sealed, err := gcm.Seal([]byte("secret"), encryption.FormatRaw)
	require.NoError(t, err)

	_, err = chacha.Open(sealed, encryption.FormatRaw)
	require.ErrorIs(t, err, encryption.ErrAuthentication)

	_, err = other.Open(sealed, encryption.FormatRaw)
	require.ErrorIs(t, err, encryption.ErrAuthentication)

	tagged, err := gcm.Seal([]byte("secret"), encryption.FormatTagged)
	require.NoError(t, err)
	assert.Equal(t, byte(encryption.AESGCM), tagged[0])

	_, err = chacha.Open(tagged, encryption.FormatTagged)
	require.ErrorIs(t, err, encryption.ErrAlgorithmMismatch)

	_, err = gcm.Open(nil, encryption.FormatTagged)
	require.ErrorIs(t, err, encryption.ErrAuthentication)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := encryption.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, encryption.FormatRaw, f)

	f, err = encryption.ParseFormat("Tagged")
	require.NoError(t, err)
	assert.Equal(t, encryption.FormatTagged, f)

	_, err = encryption.ParseFormat("zip")
	require.ErrorIs(t, err, encryption.ErrUnknownFormat)
}
