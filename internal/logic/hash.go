package logic

import (
	"fmt"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/digest"
)

// RunHash prints the five digests of each target file.
func RunHash(cfg *config.Config, env Env) error {
	for i, path := range cfg.Targets {
		set, err := digest.File(env.Fs, path)
		if err != nil {
			return fmt.Errorf("hashing: %w", err)
		}

		if len(cfg.Targets) > 1 {
			if i > 0 {
				fmt.Fprintln(env.Stdout)
			}

			fmt.Fprintf(env.Stdout, "%s\n", path)
		}

		for _, line := range set.Lines() {
			fmt.Fprintln(env.Stdout, line)
		}
	}

	return nil
}

// RunCompare succeeds when both target files have the same SHA-512 digest.
func RunCompare(cfg *config.Config, env Env) error {
	a, b := cfg.Targets[0], cfg.Targets[1]

	if !digest.Compare(env.Fs, a, b) {
		return fmt.Errorf("%w: %q and %q", ErrNoMatch, a, b)
	}

	if !cfg.Quiet {
		fmt.Fprintln(env.Stdout, "Hashes match.")
	}

	return nil
}
