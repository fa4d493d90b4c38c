package serve

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"voicescribe/internal/app"
	"voicescribe/internal/config"
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the transcription HTTP server",
	Long: `Start the transcription HTTP server.

Configuration is read from the environment (and an optional .env file).
Missing required configuration aborts startup before any connection is
accepted.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Configuration error: %v\n", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, cleanup, err := app.InitializeServer(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize server: %v\n", err)
		}
		defer cleanup()

		if err := srv.Start(); err != nil {
			log.Fatalf("Failed to start server: %v\n", err)
		}

		if err := srv.WaitForShutdown(ctx); err != nil {
			log.Fatalf("Shutdown error: %v\n", err)
		}
	},
}
