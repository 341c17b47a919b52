package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/idelchi/fcrypt/internal/digest"
	"github.com/idelchi/fcrypt/internal/fileutil"
	"github.com/idelchi/fcrypt/internal/filter"
)

// DefaultName is the file name of the catalog written into the walked root.
const DefaultName = "hash.json"

// Record holds the digests of one file. Fields are declared in key order
// so the encoded objects have sorted keys.
type Record struct {
	File   string `json:"file"`
	MD5    string `json:"md5"`
	SHA1   string `json:"sha1"`
	SHA256 string `json:"sha256"`
	SHA384 string `json:"sha384"`
	SHA512 string `json:"sha512"`
}

func newRecord(file string, set digest.Set) Record {
	return Record{
		File:   file,
		MD5:    set.MD5,
		SHA1:   set.SHA1,
		SHA256: set.SHA256,
		SHA384: set.SHA384,
		SHA512: set.SHA512,
	}
}

// Set returns the digests of the record.
func (r Record) Set() digest.Set {
	return digest.Set{MD5: r.MD5, SHA1: r.SHA1, SHA256: r.SHA256, SHA384: r.SHA384, SHA512: r.SHA512}
}

// Skipped is a file that could not be digested.
type Skipped struct {
	File  string
	Error error
}

// Catalog is the result of digesting a directory.
type Catalog struct {
	// Root is the walked directory.
	Root string
	// Records are sorted by file, with paths relative to Root and slash-separated.
	Records []Record
	// Skipped lists the files that failed to hash.
	Skipped []Skipped
}

// Options configures Build.
type Options struct {
	// Name is the catalog file name inside the root, DefaultName when empty.
	// A file of that name directly in the root is left out of the catalog.
	Name string
	// Parallel bounds the number of files digested at once, the CPU count when < 1.
	Parallel int
	// Filter holds exclude and bundle patterns.
	Filter filter.Options
}

func (o Options) name() string {
	if o.Name == "" {
		return DefaultName
	}

	return o.Name
}

func (o Options) parallel() int {
	if o.Parallel < 1 {
		return runtime.NumCPU()
	}

	return o.Parallel
}

type entry struct {
	file string
	set  digest.Set
	err  error
}

// Build digests every regular file under root. Files and subdirectories that cannot be read are
// collected in Catalog.Skipped and do not fail the run. A cancelled ctx fails the whole build.
func Build(ctx context.Context, fsys afero.Fs, root string, opts Options) (*Catalog, error) {
	flt := opts.Filter
	flt.Suffix = ""
	flt.Skip = ""
	flt.Excludes = append([]string{opts.name()}, flt.Excludes...)

	listing, err := filter.List(fsys, root, flt)
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", root, err)
	}

	root = filepath.Clean(root)
	catalog := &Catalog{Root: root}

	relative := func(path string) string {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return filepath.ToSlash(path)
		}

		return filepath.ToSlash(rel)
	}

	for _, u := range listing.Unreadable {
		catalog.Skipped = append(catalog.Skipped, Skipped{File: relative(u.Path), Error: u.Error})
	}

	workers := pool.NewWithResults[entry]().WithMaxGoroutines(opts.parallel())

	for _, file := range listing.Files {
		workers.Go(func() entry {
			if err := ctx.Err(); err != nil {
				return entry{file: relative(file), err: err}
			}

			set, err := digest.File(fsys, file)

			return entry{file: relative(file), set: set, err: err}
		})
	}

	entries := workers.Wait()

	// A context that was ever done stays done, so no cancelled entry gets past this point.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cataloguing %q: %w", root, err)
	}

	for _, e := range entries {
		if e.err != nil {
			catalog.Skipped = append(catalog.Skipped, Skipped{File: e.file, Error: e.err})

			continue
		}

		catalog.Records = append(catalog.Records, newRecord(e.file, e.set))
	}

	sort.Slice(catalog.Records, func(i, j int) bool { return catalog.Records[i].File < catalog.Records[j].File })
	sort.Slice(catalog.Skipped, func(i, j int) bool { return catalog.Skipped[i].File < catalog.Skipped[j].File })

	return catalog, nil
}

// Path returns where the catalog of root is written.
func Path(root string, opts Options) string {
	return filepath.Join(root, opts.name())
}

// Run builds the catalog of root and writes it to Path(root, opts).
// Nothing is written when the build fails, so an existing catalog survives a cancelled run.
func Run(ctx context.Context, fsys afero.Fs, root string, opts Options) (*Catalog, error) {
	catalog, err := Build(ctx, fsys, root, opts)
	if err != nil {
		return nil, err
	}

	if err := Write(fsys, Path(root, opts), catalog.Records); err != nil {
		return catalog, err
	}

	return catalog, nil
}

// Encode renders records as an indented JSON array without HTML escaping.
func Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}

	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(records); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}

	return buf.Bytes(), nil
}

// Write encodes records and writes them atomically to path.
func Write(fsys afero.Fs, path string, records []Record) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}

	if _, err := fileutil.WriteFile(fsys, path, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}

	return nil
}

// Read parses a catalog file.
func Read(fsys afero.Fs, path string) ([]Record, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing catalog %q: %w", path, err)
	}

	return records, nil
}

// Verification lists the differences between a directory and its catalog.
type Verification struct {
	Matched    []string
	Mismatched []string
	Missing    []string
}

// Verify digests every file named in records relative to root and compares it by SHA-512.
// It returns ErrMismatch when any file differs or cannot be read.
func Verify(ctx context.Context, fsys afero.Fs, root string, records []Record) (*Verification, error) {
	result := &Verification{}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("verifying %q: %w", root, err)
		}

		clean := path.Clean(record.File)
		if record.File == "" || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			return result, fmt.Errorf("%w: %q", ErrInvalidRecord, record.File)
		}

		set, err := digest.File(fsys, filepath.Join(root, filepath.FromSlash(clean)))

		switch {
		case err != nil:
			result.Missing = append(result.Missing, record.File)
		case set.Equal(record.Set()):
			result.Matched = append(result.Matched, record.File)
		default:
			result.Mismatched = append(result.Mismatched, record.File)
		}
	}

	if n := len(result.Mismatched) + len(result.Missing); n > 0 {
		return result, fmt.Errorf("%w: %d of %d files differ", ErrMismatch, n, len(records))
	}

	return result, nil
}
