// Package commands provides the command-line interface for the fcrypt tool.
//
// It implements commands for:
//   - key generation
//   - encryption and decryption
//   - hashing, comparing and cataloguing files
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/logic"
)

// EnvPrefix prefixes the environment variables that set flags, e.g. FCRYPT_KEY_FILE.
const EnvPrefix = "FCRYPT"

// loadDotEnv loads a .env file from the working directory when one exists.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	return nil
}

// bind fills cfg from the flags of cmd, falling back to FCRYPT_* environment variables.
func bind(cmd *cobra.Command, cfg *config.Config) error {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parsing configuration: %w", err)
	}

	return nil
}

// preRun returns a PreRunE handler that binds flags into cfg, records the command and its
// positional args, and validates the configuration. Validation is skipped for --show.
func preRun(cfg *config.Config, command config.Command) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := bind(cmd, cfg); err != nil {
			return err
		}

		cfg.Command = command
		cfg.Targets = args

		if cfg.Show {
			return nil
		}

		return cfg.Validate()
	}
}

// run returns a RunE handler executing the command, or printing the configuration for --show.
func run(cfg *config.Config, env logic.Env) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if cfg.Show {
			return cfg.Display(env.Stdout)
		}

		return logic.Run(cmd.Context(), cfg, env)
	}
}
