// Package filter lists the regular files below a directory tree.
//
// Bundle directories are not descended into, exclude patterns are doublestar
// globs matched against the slash-separated path relative to the walked root,
// and an optional suffix restricts the listing to encrypted files.
package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// DefaultBundles returns the directory name patterns treated as opaque packages.
func DefaultBundles() []string {
	return []string{"*.app", "*.bundle", "*.framework", "*.pkg"}
}

// Options controls a listing.
type Options struct {
	// Suffix, when set, keeps only files whose name ends with it.
	Suffix string
	// Skip, when set, drops files whose name ends with it.
	Skip string
	// Excludes are patterns matched against the path relative to the root.
	Excludes []string
	// Bundles are patterns matched against directory names; matching directories are skipped.
	Bundles []string
}

// Filter holds validated patterns for a walk.
type Filter struct {
	suffix   string
	skip     string
	excludes []string
	bundles  []string
}

// NewFilter validates the patterns in opts.
func NewFilter(opts Options) (*Filter, error) {
	for _, patterns := range [][]string{opts.Excludes, opts.Bundles} {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return nil, fmt.Errorf("%w: %q", ErrPattern, p)
			}
		}
	}

	return &Filter{
		suffix:   opts.Suffix,
		skip:     opts.Skip,
		excludes: normalizePatterns(opts.Excludes),
		bundles:  opts.Bundles,
	}, nil
}

// normalizePatterns strips leading "./" from patterns so they match cleaned paths.
func normalizePatterns(patterns []string) []string {
	out := make([]string, len(patterns))

	for i, p := range patterns {
		out[i] = strings.TrimPrefix(p, "./")
	}

	return out
}

// bundle reports whether a directory with the given name must not be descended into.
func (f *Filter) bundle(name string) bool {
	return matchAny(f.bundles, name)
}

// match reports whether a file at the relative path rel is listed.
func (f *Filter) match(rel string) bool {
	if f.suffix != "" && !strings.HasSuffix(rel, f.suffix) {
		return false
	}

	if f.skip != "" && strings.HasSuffix(rel, f.skip) {
		return false
	}

	return !matchAny(f.excludes, rel)
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}

	return false
}

// Unreadable is an entry below a walked root that could not be read.
type Unreadable struct {
	Path  string
	Error error
}

// Listing is the outcome of a walk.
type Listing struct {
	// Files are the regular files that passed the filter, sorted by path.
	Files []string
	// Unreadable lists the entries below the root that could not be read. The walk carries on past them.
	Unreadable []Unreadable
	// Scanned counts the regular files seen before filtering.
	Scanned int
}

// List walks root and returns the regular files that pass the filter.
// Only a failure to read root itself is returned as an error.
func List(fsys afero.Fs, root string, opts Options) (*Listing, error) {
	flt, err := NewFilter(opts)
	if err != nil {
		return nil, err
	}

	return flt.walk(fsys, root)
}

func (f *Filter) walk(fsys afero.Fs, root string) (*Listing, error) {
	root = filepath.Clean(root)
	listing := &Listing{}

	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}

			listing.Unreadable = append(listing.Unreadable, Unreadable{Path: path, Error: err})

			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if info.IsDir() {
			if path != root && f.bundle(info.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		listing.Scanned++

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path of %q: %w", path, err)
		}

		if f.match(filepath.ToSlash(rel)) {
			listing.Files = append(listing.Files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %q: %w", root, err)
	}

	sort.Strings(listing.Files)

	return listing, nil
}

// Resolve expands targets into a single listing.
// Files are added directly and bypass the patterns. Directories are walked and filtered.
func Resolve(fsys afero.Fs, targets []string, opts Options) (*Listing, error) {
	flt, err := NewFilter(opts)
	if err != nil {
		return nil, err
	}

	resolved := &Listing{}
	seen := make(map[string]struct{})

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}

		seen[path] = struct{}{}
		resolved.Files = append(resolved.Files, path)
	}

	for _, target := range targets {
		target = filepath.Clean(target)

		info, err := fsys.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrNotExist, target)
		}

		if !info.IsDir() {
			resolved.Scanned++

			add(target)

			continue
		}

		walked, err := flt.walk(fsys, target)
		if err != nil {
			return nil, err
		}

		resolved.Scanned += walked.Scanned
		resolved.Unreadable = append(resolved.Unreadable, walked.Unreadable...)

		for _, path := range walked.Files {
			add(path)
		}
	}

	return resolved, nil
}
