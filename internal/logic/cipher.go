package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/encryption"
	"github.com/idelchi/fcrypt/internal/filter"
	"github.com/idelchi/fcrypt/internal/keygen"
)

// RunCipher encrypts or decrypts every target file and the files found below every target directory.
func RunCipher(ctx context.Context, cfg *config.Config, env Env) error {
	start := time.Now()

	pairing, err := newPairing(cfg, env)
	if err != nil {
		return err
	}

	opts, err := filterOptions(cfg, env.Fs)
	if err != nil {
		return err
	}

	proc := encryption.NewProcessor(env.Fs, pairing, encryption.Options{
		Mode:     cfg.Mode(),
		Format:   cfg.Format(),
		Suffix:   cfg.Suffix,
		Parallel: cfg.Parallel,
		Delete:   cfg.Delete,
		Quiet:    cfg.Quiet,
		Filter:   opts,
		Stdout:   env.Stdout,
		Stderr:   env.Stderr,
	})

	listing, err := filter.Resolve(env.Fs, cfg.Targets, proc.FilterOptions())
	if err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}

	report, err := proc.ProcessListing(ctx, listing)

	if cfg.Stats {
		printStats(env.Stderr, stats{
			scanned:   listing.Scanned,
			excluded:  listing.Scanned - len(listing.Files),
			processed: report.Processed(),
			errored:   report.Failed(),
			size:      report.Size(),
			duration:  time.Since(start),
		})
	}

	if err != nil {
		return fmt.Errorf("running %s: %w", cfg.Mode(), err)
	}

	return nil
}

// newPairing loads the key from --key or --key-file and couples it with the algorithm.
func newPairing(cfg *config.Config, env Env) (*encryption.Pairing, error) {
	algorithm, err := encryption.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	key, err := cfg.InlineKey()
	if err != nil {
		return nil, err
	}

	if key == nil {
		if key, err = keygen.Load(env.Fs, cfg.KeyFile); err != nil {
			return nil, err
		}
	}

	pairing, err := encryption.NewPairing(algorithm, key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	return pairing, nil
}
