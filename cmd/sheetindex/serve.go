package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/sheetindex/internal/server"
	"github.com/jackzampolin/sheetindex/internal/server/endpoints"
)

var (
	serveHost    string
	servePort    string
	serveWorkers int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sheetindex server",
	Long: `Start the sheetindex HTTP server.

This starts the HTTP API server and the page pool that identifies pages.
When the server shuts down (via Ctrl+C or SIGTERM), in-flight requests
drain before the pool stops. Edits to the config file are picked up
without a restart.

The server provides:
  - /health        - Basic server health check
  - /ready         - Readiness check (page pool running)
  - /api/identify  - Sheet identification for a hits document
  - /swagger       - API documentation

Examples:
  sheetindex serve                    # Start on the configured address
  sheetindex serve --port 3000        # Start on custom port
  sheetindex serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		h, err := openHome()
		if err != nil {
			return err
		}

		cfgMgr, err := loadConfig(h)
		if err != nil {
			return err
		}
		cfgMgr.WatchConfig()

		cfg := cfgMgr.Get()
		host, port := cfg.Server.Host, cfg.Server.Port
		if cmd.Flags().Changed("host") || host == "" {
			host = serveHost
		}
		if cmd.Flags().Changed("port") || port == "" {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:            host,
			Port:            port,
			ConfigManager:   cfgMgr,
			Home:            h,
			Workers:         serveWorkers,
			SwaggerSpecPath: endpoints.GetSwaggerSpecPath(),
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 0, "Page pool workers (default: defaults.max_workers, then CPU count)")

	rootCmd.AddCommand(serveCmd)
}
