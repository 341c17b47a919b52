// Package catalog records the digests of every file below a directory in a
// single JSON document, "<root>/hash.json" by default, and verifies a
// directory against such a document.
package catalog
