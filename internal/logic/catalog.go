package logic

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/idelchi/fcrypt/internal/catalog"
	"github.com/idelchi/fcrypt/internal/config"
)

// RunCatalog writes a hash catalog into each target directory.
func RunCatalog(ctx context.Context, cfg *config.Config, env Env) error {
	opts, err := catalogOptions(cfg, env)
	if err != nil {
		return err
	}

	for _, root := range cfg.Targets {
		start := time.Now()

		cat, err := catalog.Run(ctx, env.Fs, root, opts)
		if err != nil {
			return err
		}

		for _, skipped := range cat.Skipped {
			fmt.Fprintf(env.Stderr, "Error hashing %q: %v\n", skipped.File, skipped.Error)
		}

		if !cfg.Quiet {
			fmt.Fprintf(env.Stdout, "Saved %d hashes to %q\n", len(cat.Records), catalog.Path(root, opts))
		}

		if cfg.Stats {
			var size int64

			for _, record := range cat.Records {
				if info, err := env.Fs.Stat(filepath.Join(root, filepath.FromSlash(record.File))); err == nil {
					size += info.Size()
				}
			}

			printStats(env.Stderr, stats{
				scanned:   len(cat.Records) + len(cat.Skipped),
				processed: len(cat.Records),
				errored:   len(cat.Skipped),
				size:      size,
				duration:  time.Since(start),
			})
		}
	}

	return nil
}

// RunVerify compares each target directory against its catalog.
// --catalog overrides the catalog location when a single directory is verified.
func RunVerify(ctx context.Context, cfg *config.Config, env Env) error {
	opts, err := catalogOptions(cfg, env)
	if err != nil {
		return err
	}

	var failed int

	for _, root := range cfg.Targets {
		path := catalog.Path(root, opts)
		if cfg.Catalog != "" {
			path = cfg.Catalog
		}

		records, err := catalog.Read(env.Fs, path)
		if err != nil {
			return err
		}

		result, err := catalog.Verify(ctx, env.Fs, root, records)

		for _, file := range result.Mismatched {
			fmt.Fprintf(env.Stderr, "Mismatch %q\n", file)
		}

		for _, file := range result.Missing {
			fmt.Fprintf(env.Stderr, "Missing %q\n", file)
		}

		if !cfg.Quiet {
			fmt.Fprintf(env.Stdout, "Verified %d of %d files in %q\n", len(result.Matched), len(records), root)
		}

		if err != nil {
			fmt.Fprintf(env.Stderr, "Error verifying %q: %v\n", root, err)

			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d directories", catalog.ErrMismatch, failed, len(cfg.Targets))
	}

	return nil
}

func catalogOptions(cfg *config.Config, env Env) (catalog.Options, error) {
	opts, err := filterOptions(cfg, env.Fs)
	if err != nil {
		return catalog.Options{}, err
	}

	return catalog.Options{
		Name:     catalog.DefaultName,
		Parallel: cfg.Parallel,
		Filter:   opts,
	}, nil
}
