package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docsync/internal/app"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveConfigPath specifies a custom configuration directory path.
// The directory should contain config.yaml; relative disk paths in it are
// resolved against this directory.
var serveConfigPath string

// serveCmd runs the reconcile loop until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reconcile loop and the status server",
	Long: `Starts the reconcile loop. Every interval (10s by default) docsync reads the
route list from the configured source, fetches each route's document and
updates the session store.

Sources (source.mode in config.yaml):
  disk        one directory per service below source.disk.path; changes are
              picked up immediately when source.disk.watch is true
  static      routes listed under source.routes
  kubernetes  DocumentRoute resources in the cluster

Unless server.enabled is false, a status server answers on /healthz, /status
and POST /reconcile.

Configuration:
  docsync loads config.yaml from ~/.config/docsync, or from the directory given
  with --config-path. A missing file runs disk mode over ./docs with the
  in-memory store.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, serveConfigPath)

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable general debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Custom configuration directory path (default ~/.config/docsync)")
}
