package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"housingbridge/config"
	"housingbridge/scraper/listing"
	"housingbridge/server"
	"housingbridge/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the audit wizard and the audit API",
	Long: `Start an HTTP server that hosts the three-step audit wizard and the
POST /api/audit endpoint. The wizard calls the audit service at
--audit-endpoint, which by default is this same server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		auditor := services.NewAuditor(listing.New(cfg, logger), logger)
		client := services.NewAuditClient(cfg.AuditEndpoint, cfg.AuditTimeout, logger)

		srv, err := server.New(cfg, client, auditor, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize server: %w", err)
		}

		logger.Info("[serve] Audit endpoint %s | concurrency %d | rate %dms",
			cfg.AuditEndpoint, cfg.MaxConcurrency, cfg.RateLimitMs)
		return srv.ListenAndServe(cmd.Context(), fmt.Sprintf(":%d", cfg.Port))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().String("audit-endpoint", "", "base URL of the audit service")
	_ = viper.BindPFlag(config.KeyPort, serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag(config.KeyAuditEndpoint, serveCmd.Flags().Lookup("audit-endpoint"))
}
