package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/encryption"
	"github.com/idelchi/fcrypt/internal/logic"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(cfg *config.Config, env logic.Env, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "fcrypt [flags] command [flags]",
		Short: "File encryption and integrity utility",
		Long: `A file encryption utility using AES-GCM or ChaCha20-Poly1305.
Provides commands for key generation, encryption, decryption,
hashing and cataloguing the digests of directory trees.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadDotEnv()
		},
	}

	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	flags := root.PersistentFlags()

	flags.BoolP("show", "s", false, "Show the configuration and exit")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print a summary after processing")
	flags.StringSlice("exclude", nil, "Glob patterns of files to skip, relative to the walked directory")
	flags.String("exclude-from", "", "Path to a JSONC file with an array of exclude patterns")
	flags.String("suffix", encryption.DefaultSuffix, "Suffix of encrypted files")

	root.AddCommand(
		NewGenerateCommand(cfg, env),
		NewEncryptCommand(cfg, env),
		NewDecryptCommand(cfg, env),
		NewHashCommand(cfg, env),
		NewCompareCommand(cfg, env),
		NewCatalogCommand(cfg, env),
		NewVerifyCommand(cfg, env),
		NewCheckCommand(cfg, env),
	)

	return root
}
