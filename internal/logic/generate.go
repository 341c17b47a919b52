package logic

import (
	"fmt"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/keygen"
)

// RunGenerate creates a random key of cfg.Size bits and saves it to the target path.
func RunGenerate(cfg *config.Config, env Env) error {
	key, err := keygen.Generate(cfg.Size)
	if err != nil {
		return err
	}

	path := cfg.Targets[0]

	if err := keygen.Write(env.Fs, path, key); err != nil {
		return err
	}

	if !cfg.Quiet {
		fmt.Fprintf(env.Stdout, "Saved %d-bit key to %q\n", cfg.Size, path)
	}

	return nil
}
