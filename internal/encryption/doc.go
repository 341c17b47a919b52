// Package encryption seals and opens whole files with an authenticated cipher.
//
// Two algorithms are supported: AES-GCM with 128, 192 or 256-bit keys and
// ChaCha20-Poly1305 with 256-bit keys. Both produce an envelope of
// nonce || ciphertext || tag, written next to the input as "<name>.enc".
// An envelope can optionally carry a one-byte algorithm discriminator.
//
// Directory batches run on a bounded worker pool and never stop at the first
// failure: every file is attempted and the failures are reported together.
package encryption
