// Package keygen creates, persists and loads raw symmetric keys.
//
// Keys are 128, 192 or 256 bits long and stored on disk as their raw bytes,
// without any header or encoding.
package keygen
