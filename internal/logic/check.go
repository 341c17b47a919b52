package logic

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/filter"
)

// RunCheck validates that every exclude pattern matches at least one file below the targets.
func RunCheck(cfg *config.Config, env Env) error {
	opts, err := filterOptions(cfg, env.Fs)
	if err != nil {
		return err
	}

	if len(opts.Excludes) == 0 {
		return ErrNoPatterns
	}

	candidates, err := collectFiles(cfg.Targets, env, opts.Bundles)
	if err != nil {
		return err
	}

	failures := checkPatterns(opts.Excludes, candidates, cfg.Quiet, env)
	if failures > 0 {
		return fmt.Errorf("%w: %d pattern(s)", ErrUnmatchedPattern, failures)
	}

	return nil
}

// collectFiles lists every file below the targets as paths relative to its target,
// the form exclude patterns are matched against.
func collectFiles(targets []string, env Env, bundles []string) ([]string, error) {
	var paths []string

	for _, target := range targets {
		listing, err := filter.List(env.Fs, target, filter.Options{Bundles: bundles})
		if err != nil {
			return nil, err
		}

		for _, u := range listing.Unreadable {
			fmt.Fprintf(env.Stderr, "Error reading %q: %v\n", u.Path, u.Error)
		}

		root := filepath.Clean(target)

		for _, file := range listing.Files {
			rel, err := filepath.Rel(root, file)
			if err != nil {
				return nil, fmt.Errorf("relative path of %q: %w", file, err)
			}

			if rel == "." {
				rel = filepath.Base(file)
			}

			paths = append(paths, filepath.ToSlash(rel))
		}
	}

	return paths, nil
}

// checkPatterns tests each pattern individually against candidates.
// Returns the number of patterns that matched zero files.
func checkPatterns(patterns, candidates []string, quiet bool, env Env) int {
	var failures int

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			fmt.Fprintf(env.Stderr, "exclude: %s: invalid pattern\n", pattern)

			failures++

			continue
		}

		pattern = strings.TrimPrefix(pattern, "./")

		var count int

		for _, path := range candidates {
			if ok, _ := doublestar.Match(pattern, path); ok {
				count++
			}
		}

		switch {
		case count == 0:
			fmt.Fprintf(env.Stderr, "exclude: %s: 0 files (ERROR)\n", pattern)

			failures++
		case !quiet:
			fmt.Fprintf(env.Stderr, "exclude: %s: %d files\n", pattern, count)
		}
	}

	return failures
}
