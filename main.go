// Command fcrypt encrypts, decrypts and fingerprints files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/idelchi/fcrypt/internal/commands"
	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/logic"
)

// Global variable for CI stamping.
var version = "unknown - unofficial & generated by unknown"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	cfg := &config.Config{}
	env := logic.DefaultEnv()

	err := commands.NewRootCommand(cfg, env, version).ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)

		os.Exit(1)
	}
}
