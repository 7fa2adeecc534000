package main

import (
	"github.com/spf13/cobra"

	"spacedash/internal/server"
	"spacedash/pkg/logger"
	"spacedash/pkg/ui"
)

var serveAddr string

// serveCmd runs the HTTP dashboard
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP dashboard",
	Long: `Run the HTTP dashboard.

Endpoints:
  GET /healthz
  GET /api/categories
  GET /api/{category}                 cards and image references as JSON
  GET /api/{category}/filters         filter options
  GET /api/{category}/cards.html      cards as an HTML page
  GET /api/{category}/images.zip      image archive
  GET /api/launches/export?format=    launch table as csv or xlsx

Every data endpoint accepts limit and the category's filters as query
parameters.`,
	Example: `  spacedash serve --addr :9090`,
	Args:    cobra.NoArgs,
	RunE:    runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	extra := map[string]interface{}{}
	if serveAddr != "" {
		extra["addr"] = serveAddr
	}
	cfg, err := loadConfig(extra)
	if err != nil {
		return err
	}

	svc := newServices(cfg)
	srv := server.New(svc.pipeline, svc.builder, cfg, logger.GetLogger())

	if !quiet {
		ui.PrintInfo("Dashboard listening on", cfg.Server.Address)
	}
	return srv.ListenAndServe(cmd.Context())
}
