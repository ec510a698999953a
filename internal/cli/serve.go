package cli

import (
	"fmt"

	"atscore/internal/config"
	"atscore/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for matching, tailoring, and generation",
	Long: `Start an HTTP server that provides REST API endpoints for resume
scoring and AI-backed generation.

Available endpoints:
- POST /match: Score a resume against a job description (local)
- POST /report: Generate a full ATS report (local)
- POST /questions: Suggest likely interview questions (local)
- POST /tailor: Tailor a resume for a job description (AI)
- POST /coverletter: Generate a cover letter (AI)
- POST /answer: Draft an answer to an application question (AI)
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.StringP("port", "p", "", "Port to listen on (default from config)")
	flags.String("host", "", "Host to bind to (default from config)")
	flags.String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	flags.String("cert-file", "", "Server certificate file (PEM, overrides config)")
	flags.String("key-file", "", "Server private key file (PEM, overrides config)")
	flags.String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")

	for key, flag := range map[string]string{
		"server.port":         "port",
		"server.host":         "host",
		"server.tls.mode":     "tls-mode",
		"server.tls.certfile": "cert-file",
		"server.tls.keyfile":  "key-file",
		"server.tls.cafile":   "ca-file",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	// Flag overrides have been merged by now; check TLS settings again.
	withOverrides := &config.Config{Server: cfg.Server}
	if err := withOverrides.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	srv := server.NewServer(cfg, server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		RateLimit:      &cfg.Server.RateLimit,
	}, logger)
	return srv.Start()
}
