package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sprawl-dev/sprawl/core"
	"github.com/sprawl-dev/sprawl/internal/server"
)

// serveCmd exposes reports and live scan progress over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scan reports over HTTP and scan progress over websockets.",
	Long: `The serve command starts an HTTP server for rendering clients.

Routes:
  GET /healthz                 liveness check
  GET /repositories            registered repositories
  GET /scans/{id}/report       report of a completed scan (?limit=N)
  GET /scans/{id}/watch        websocket stream of snapshots, then the report

Examples:
  sprawl serve --addr :9090`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		cl, err := core.NewClients(cfg)
		if err != nil {
			return err
		}
		return server.New(cfg, cl).ListenAndServe(rootCtx)
	},
}
