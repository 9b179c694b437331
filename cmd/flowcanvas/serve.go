package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"flowcanvas/internal/di"
)

func serveCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the canvas inspector server",
		Long: "Run the canvas inspector server.\n\n" +
			"Configuration is read from base.<ext> and <environment>.<ext> in the config\n" +
			"directory, then from FLOWCANVAS_* variables. Files are watched and reapplied\n" +
			"while the server runs.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, configDir)
		},
	}

	cmd.Flags().StringVarP(&configDir, "config", "c", "config", "Configuration directory")
	return cmd
}

func serve(ctx context.Context, configDir string) error {
	app, cleanup, err := di.InitializeApp(ctx, di.ConfigDir(configDir), di.Version(version))
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.Run(ctx); err != nil {
		return err
	}
	app.Logger.Info("Server stopped")
	return nil
}
