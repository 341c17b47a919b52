package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/logic"
)

// NewGenerateCommand creates a new cobra command for the generate subcommand.
func NewGenerateCommand(cfg *config.Config, env logic.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [flags] keyfile",
		Aliases: []string{"gen"},
		Short:   "Generate a random key and save it to a file",
		Args:    cobra.ExactArgs(1),
		PreRunE: preRun(cfg, config.Generate),
		RunE:    run(cfg, env),
	}

	cmd.Flags().Int("size", 0, "Key size in bits: 128, 192 or 256")

	return cmd
}
