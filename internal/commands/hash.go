package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/logic"
)

// NewHashCommand creates a new cobra command for the hash subcommand.
func NewHashCommand(cfg *config.Config, env logic.Env) *cobra.Command {
	return &cobra.Command{
		Use:     "hash [flags] files...",
		Short:   "Print the MD5, SHA-1, SHA-256, SHA-384 and SHA-512 digests of files",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, config.Hash),
		RunE:    run(cfg, env),
	}
}

// NewCompareCommand creates a new cobra command for the compare subcommand.
func NewCompareCommand(cfg *config.Config, env logic.Env) *cobra.Command {
	return &cobra.Command{
		Use:     "compare [flags] file file",
		Aliases: []string{"cmp"},
		Short:   "Compare two files by their SHA-512 digest",
		Args:    cobra.ExactArgs(2), //nolint:mnd
		PreRunE: preRun(cfg, config.Compare),
		RunE:    run(cfg, env),
	}
}

// NewCatalogCommand creates a new cobra command for the catalog subcommand.
func NewCatalogCommand(cfg *config.Config, env logic.Env) *cobra.Command {
	return &cobra.Command{
		Use:     "catalog [flags] directories...",
		Short:   "Write the digests of every file below a directory to <directory>/hash.json",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, config.Catalog),
		RunE:    run(cfg, env),
	}
}

// NewVerifyCommand creates a new cobra command for the verify subcommand.
func NewVerifyCommand(cfg *config.Config, env logic.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "verify [flags] directories...",
		Short:   "Check a directory against its hash catalog",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, config.Verify),
		RunE:    run(cfg, env),
	}

	cmd.Flags().String("catalog", "", "Path to the catalog, defaults to <directory>/hash.json")

	return cmd
}
