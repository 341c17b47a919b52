package encryption

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/fcrypt/internal/fileutil"
	"github.com/idelchi/fcrypt/internal/filter"
)

// Mode selects between sealing and opening files.
type Mode byte

const (
	// Encrypt seals plaintext files into "<name><suffix>".
	Encrypt Mode = iota
	// Decrypt opens "<name><suffix>" files back into "<name>".
	Decrypt
)

func (m Mode) String() string {
	if m == Decrypt {
		return "decrypt"
	}

	return "encrypt"
}

// DefaultSuffix is appended to encrypted files.
const DefaultSuffix = ".enc"

// Options configures a Processor.
type Options struct {
	// Mode selects encryption or decryption.
	Mode Mode
	// Format is the envelope layout to write or expect.
	Format Format
	// Suffix marks encrypted files, DefaultSuffix when empty.
	Suffix string
	// Parallel bounds the number of files processed at once, the CPU count when < 1.
	Parallel int
	// Delete removes each input after its output was written.
	Delete bool
	// Quiet suppresses the per-file success lines.
	Quiet bool
	// Filter holds the exclude and bundle patterns for directory batches.
	Filter filter.Options
	// Stdout and Stderr receive progress and error lines; nil discards them.
	Stdout io.Writer
	Stderr io.Writer
}

// Processor handles the encryption and decryption of files.
type Processor struct {
	// fs is the file system all reads and writes go through
	fs afero.Fs

	// pairing holds the validated algorithm and key
	pairing *Pairing

	// opts contains runtime configuration options
	opts Options
}

// NewProcessor creates a Processor working on fsys with the given pairing.
func NewProcessor(fsys afero.Fs, pairing *Pairing, opts Options) *Processor {
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}

	if opts.Parallel < 1 {
		opts.Parallel = runtime.NumCPU()
	}

	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}

	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}

	return &Processor{fs: fsys, pairing: pairing, opts: opts}
}

// ProcessFile encrypts or decrypts a single file.
func (p *Processor) ProcessFile(filename string) Result {
	outPath, err := p.OutputPath(filename)
	if err != nil {
		return Result{Input: filename, Error: err}
	}

	size, err := p.processFile(filename, outPath)
	if err != nil {
		return Result{Input: filename, Error: err}
	}

	return Result{Input: filename, Output: outPath, OutputSize: size}
}

// ProcessDir processes every file below root. In decrypt mode only files carrying the suffix are taken,
// in encrypt mode files already carrying it are left alone.
// A failing file or unreadable subdirectory never stops the others; files that succeeded stay transformed.
func (p *Processor) ProcessDir(ctx context.Context, root string) (*Report, error) {
	listing, err := filter.List(p.fs, root, p.FilterOptions())
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", root, err)
	}

	return p.ProcessListing(ctx, listing)
}

// FilterOptions returns the walk options matching the processor mode.
func (p *Processor) FilterOptions() filter.Options {
	opts := p.opts.Filter

	switch p.opts.Mode {
	case Decrypt:
		opts.Suffix = p.opts.Suffix
	case Encrypt:
		opts.Skip = p.opts.Suffix
	}

	return opts
}

// ProcessListing processes the files of a listing. Its unreadable entries are reported as failed results.
func (p *Processor) ProcessListing(ctx context.Context, listing *filter.Listing) (*Report, error) {
	failed := make([]Result, 0, len(listing.Unreadable))

	for _, u := range listing.Unreadable {
		failed = append(failed, Result{Input: u.Path, Error: fmt.Errorf("reading directory: %w", u.Error)})
	}

	return p.process(ctx, listing.Files, failed)
}

// ProcessFiles concurrently processes the given files.
// Once ctx is done no further files are started; files already in flight complete.
// The returned error wraps ErrBatch when at least one file failed.
func (p *Processor) ProcessFiles(ctx context.Context, files []string) (*Report, error) {
	return p.process(ctx, files, nil)
}

//nolint:cyclop
func (p *Processor) process(ctx context.Context, files []string, failed []Result) (*Report, error) {
	group := errgroup.Group{}
	group.SetLimit(p.opts.Parallel)

	results := make(chan Result, len(files)+len(failed))
	report := &Report{}

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range results {
			p.print(result)

			if p.opts.Delete && result.Error == nil {
				p.deleteInput(result.Input)
			}

			report.add(result)
		}
	}()

	for _, result := range failed {
		results <- result
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			results <- Result{Input: file, Error: fmt.Errorf("not started: %w", err)}

			continue
		}

		group.Go(func() error {
			results <- p.ProcessFile(file)

			return nil
		})
	}

	_ = group.Wait() //nolint:errcheck // workers report through the results channel

	close(results)

	<-done // Wait for printer to finish

	report.sort()

	return report, report.Err()
}

func (p *Processor) print(result Result) {
	if result.Error != nil {
		fmt.Fprintf(p.opts.Stderr, "Error processing %q: %v\n", result.Input, result.Error)

		return
	}

	if !p.opts.Quiet {
		fmt.Fprintf(p.opts.Stdout, "Processed %q -> %q\n", result.Input, result.Output)
	}
}

func (p *Processor) deleteInput(path string) {
	if err := p.fs.Remove(path); err != nil {
		fmt.Fprintf(p.opts.Stderr, "Error deleting %q: %v\n", path, err)

		return
	}

	if !p.opts.Quiet {
		fmt.Fprintf(p.opts.Stdout, "Deleted %q\n", path)
	}
}

// processFile reads filename whole, transforms it and writes outPath through a temp file
// and an atomic rename. The input is never modified.
func (p *Processor) processFile(filename, outPath string) (size int64, err error) {
	input, err := afero.ReadFile(p.fs, filepath.Clean(filename))
	if err != nil {
		return 0, fmt.Errorf("reading input file: %w", err)
	}

	var output []byte

	if p.opts.Mode == Decrypt {
		output, err = p.pairing.Open(input, p.opts.Format)
		if err != nil {
			return 0, fmt.Errorf("decrypting file: %w", err)
		}
	} else {
		output, err = p.pairing.Seal(input, p.opts.Format)
		if err != nil {
			return 0, fmt.Errorf("encrypting file: %w", err)
		}
	}

	tc, err := fileutil.NewTempContext(p.fs, filename, outPath)
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tc.CleanupOnError(&err)

	if _, err = tc.TmpFile.Write(output); err != nil {
		return 0, fmt.Errorf("writing output: %w", err)
	}

	return tc.Commit(outPath, tc.Perm())
}

// OutputPath derives the output path of filename: the suffix is appended when
// encrypting and stripped when decrypting. Decrypting a file without the suffix fails
// rather than overwriting the input.
func (p *Processor) OutputPath(filename string) (string, error) {
	if p.opts.Mode == Encrypt {
		return filename + p.opts.Suffix, nil
	}

	base := filepath.Base(filename)
	if !strings.HasSuffix(base, p.opts.Suffix) || base == p.opts.Suffix {
		return "", fmt.Errorf("%w: %q lacks %q", ErrMissingSuffix, filename, p.opts.Suffix)
	}

	return filepath.Join(filepath.Dir(filename), strings.TrimSuffix(base, p.opts.Suffix)), nil
}
