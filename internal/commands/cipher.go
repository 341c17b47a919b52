package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config, env logic.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encrypt [flags] paths...",
		Aliases: []string{"enc"},
		Short:   "Encrypt files",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, config.Encrypt),
		RunE:    run(cfg, env),
	}

	cipherFlags(cmd)

	return cmd
}

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config, env logic.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decrypt [flags] paths...",
		Aliases: []string{"dec"},
		Short:   "Decrypt files",
		Long: `Decrypt files. Directories are walked and only files carrying the
encrypted suffix are decrypted.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, config.Decrypt),
		RunE:    run(cfg, env),
	}

	cipherFlags(cmd)

	return cmd
}

func cipherFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("key", "k", "", "Encryption key (16, 24 or 32 bytes, hex-encoded)")
	cmd.Flags().StringP("key-file", "f", "", "Path to the key file with the raw key bytes")
	cmd.Flags().StringP("algorithm", "a", "", "Cipher: aes-gcm or chacha20-poly1305")
	cmd.Flags().BoolP("tagged", "t", false, "Prefix ciphertexts with a byte naming the algorithm")
	cmd.Flags().BoolP("delete", "d", false, "Delete the original file after successful encryption/decryption")
}
