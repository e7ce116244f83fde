// Command mintmind runs the MintMind API server and offers maintenance
// commands over the persisted asset collections.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/mintmind/internal/app"
	"github.com/heartmarshall/mintmind/internal/config"
	"github.com/heartmarshall/mintmind/internal/service/assetstore"
)

var configPath string

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mintmind",
		Short:         "AI content generation with IP registration",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")

	root.AddCommand(newServeCmd(), newExportCmd(), newStatsCmd(), newClearCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return app.Serve(ctx, cfg)
		},
	}
}

// withAssetStore loads configuration, opens the configured storage and
// hands an asset store over it to fn.
func withAssetStore(ctx context.Context, fn func(*assetstore.Store) error) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log)

	store, closeStore, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("open storage", slog.String("error", err.Error()))
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeStore()

	return fn(assetstore.New(store, logger))
}
