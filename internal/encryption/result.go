package encryption

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

// Result represents the outcome of processing a single file.
type Result struct {
	// Input file path
	Input string

	// Output file path
	Output string

	// Output file size in bytes
	OutputSize int64

	// Any error that occurred during processing
	Error error
}

// Report collects the results of a batch, keyed by input path.
type Report struct {
	Results []Result
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
}

func (r *Report) sort() {
	sort.Slice(r.Results, func(i, j int) bool {
		return r.Results[i].Input < r.Results[j].Input
	})
}

// Processed returns the number of files that were transformed.
func (r *Report) Processed() int {
	return len(r.Results) - r.Failed()
}

// Failed returns the number of files that could not be transformed.
func (r *Report) Failed() int {
	var failed int

	for _, res := range r.Results {
		if res.Error != nil {
			failed++
		}
	}

	return failed
}

// Size returns the summed size of all written outputs.
func (r *Report) Size() int64 {
	var size int64

	for _, res := range r.Results {
		size += res.OutputSize
	}

	return size
}

// Err returns nil when every file succeeded, otherwise an ErrBatch carrying the failure count
// and the individual errors.
func (r *Report) Err() error {
	var errs error

	for _, res := range r.Results {
		if res.Error != nil {
			errs = multierr.Append(errs, fmt.Errorf("%q: %w", res.Input, res.Error))
		}
	}

	if errs == nil {
		return nil
	}

	return fmt.Errorf("%w: %d of %d files failed: %w", ErrBatch, len(multierr.Errors(errs)), len(r.Results), errs)
}
