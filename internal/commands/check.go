package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/logic"
)

// NewCheckCommand creates a new cobra command for the check subcommand.
func NewCheckCommand(cfg *config.Config, env logic.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "check [flags] [paths...]",
		Short: "Validate that exclude patterns match files",
		Args:  cobra.ArbitraryArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			return preRun(cfg, config.Check)(cmd, args)
		},
		RunE: run(cfg, env),
	}
}
