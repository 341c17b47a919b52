// Package logic implements the core business logic behind each fcrypt command.
package logic

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/filter"
)

// Env is the file system and the output streams a command works with.
type Env struct {
	Fs     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultEnv returns an Env on the operating system file system and standard streams.
func DefaultEnv() Env {
	return Env{
		Fs:     afero.NewOsFs(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run is the main logic of the application.
func Run(ctx context.Context, cfg *config.Config, env Env) error {
	if cfg.Command != config.Generate {
		if err := exist(env.Fs, cfg.Targets...); err != nil {
			return err
		}
	}

	switch cfg.Command {
	case config.Generate:
		return RunGenerate(cfg, env)
	case config.Encrypt, config.Decrypt:
		return RunCipher(ctx, cfg, env)
	case config.Hash:
		return RunHash(cfg, env)
	case config.Compare:
		return RunCompare(cfg, env)
	case config.Catalog:
		return RunCatalog(ctx, cfg, env)
	case config.Verify:
		return RunVerify(ctx, cfg, env)
	case config.Check:
		return RunCheck(cfg, env)
	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownCommand, cfg.Command)
	}
}

// exist checks that every path is present.
func exist(fsys afero.Fs, paths ...string) error {
	for _, path := range paths {
		if _, err := fsys.Stat(path); err != nil {
			return fmt.Errorf("%w: %q", ErrNotExist, path)
		}
	}

	return nil
}

// filterOptions merges the exclude flags and the exclude file into filter options.
func filterOptions(cfg *config.Config, fsys afero.Fs) (filter.Options, error) {
	excludes := append([]string{}, cfg.Exclude...)

	if cfg.ExcludeFrom != "" {
		patterns, err := filter.LoadPatterns(fsys, cfg.ExcludeFrom)
		if err != nil {
			return filter.Options{}, fmt.Errorf("loading exclude patterns: %w", err)
		}

		excludes = append(excludes, patterns...)
	}

	return filter.Options{
		Excludes: excludes,
		Bundles:  filter.DefaultBundles(),
	}, nil
}

type stats struct {
	scanned   int
	excluded  int
	processed int
	errored   int
	size      int64
	duration  time.Duration
}

func printStats(w io.Writer, s stats) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Scanned:   %d\n", s.scanned)
	fmt.Fprintf(w, "  Excluded:  %d\n", s.excluded)
	fmt.Fprintf(w, "  Processed: %d\n", s.processed)
	fmt.Fprintf(w, "  Errors:    %d\n", s.errored)
	//nolint:gosec // size is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, s.size))))
	fmt.Fprintf(w, "  Duration:  %s\n", s.duration.Round(time.Millisecond))
}
