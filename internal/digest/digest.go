// Package digest computes the MD5, SHA-1, SHA-256, SHA-384 and SHA-512 digests of files.
//
// MD5 and SHA-1 are reported for reference only; file identity is decided on SHA-512.
package digest

import (
	"crypto/md5"  //nolint:gosec // reported for reference, never used for equality
	"crypto/sha1" //nolint:gosec // reported for reference, never used for equality
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/spf13/afero"
)

// Set holds the lower-case hex digests of one file's content.
// The zero value is the empty set, used when a file could not be read.
type Set struct {
	MD5    string
	SHA1   string
	SHA256 string
	SHA384 string
	SHA512 string
}

// Algorithms lists the digest names in their fixed order.
func Algorithms() []string {
	return []string{"MD5", "SHA1", "SHA256", "SHA384", "SHA512"}
}

// Empty reports whether the set is unavailable.
func (s Set) Empty() bool {
	return s == Set{}
}

// Values returns the digests in the order of Algorithms.
func (s Set) Values() []string {
	return []string{s.MD5, s.SHA1, s.SHA256, s.SHA384, s.SHA512}
}

// Lines renders the set as "NAME: hex" lines.
func (s Set) Lines() []string {
	if s.Empty() {
		return nil
	}

	names := Algorithms()
	values := s.Values()
	lines := make([]string, len(names))

	for i := range names {
		lines[i] = fmt.Sprintf("%s: %s", names[i], values[i])
	}

	return lines
}

// Equal reports whether both sets are available and share the same SHA-512 digest.
func (s Set) Equal(other Set) bool {
	if s.Empty() || other.Empty() {
		return false
	}

	return s.SHA512 == other.SHA512
}

// Bytes digests data with every algorithm.
func Bytes(data []byte) Set {
	sum := func(h hash.Hash) string {
		h.Write(data)

		return hex.EncodeToString(h.Sum(nil))
	}

	return Set{
		MD5:    sum(md5.New()),
		SHA1:   sum(sha1.New()),
		SHA256: sum(sha256.New()),
		SHA384: sum(sha512.New384()),
		SHA512: sum(sha512.New()),
	}
}

// File reads path once and digests its content.
// On failure it returns the empty Set together with the error.
func File(fsys afero.Fs, path string) (Set, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Set{}, fmt.Errorf("reading %q: %w", path, err)
	}

	return Bytes(data), nil
}

// Compare reports whether a and b have the same content, judged by SHA-512.
// An unreadable file never compares equal.
func Compare(fsys afero.Fs, a, b string) bool {
	setA, err := File(fsys, a)
	if err != nil {
		return false
	}

	setB, err := File(fsys, b)
	if err != nil {
		return false
	}

	return setA.Equal(setB)
}
