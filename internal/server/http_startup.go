package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atscore/internal/ats"
	"atscore/internal/observability"
)

const (
	obsShutdownTimeout  = 5 * time.Second
	httpShutdownTimeout = 30 * time.Second
)

// Start brings up the scoring engine, observability, TLS, and the HTTP
// listener, then blocks until a shutdown signal or a fatal server error.
func (s *Server) Start() error {
	engine, err := ats.NewEngine(ats.DefaultTaxonomy(), s.AppConfig.Scoring.Thresholds)
	if err != nil {
		return fmt.Errorf("failed to create scoring engine: %w", err)
	}
	s.Engine = engine

	om, err := s.initObservability()
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), obsShutdownTimeout)
		defer cancel()
		if err := om.Shutdown(ctx); err != nil {
			s.Logger.LogError(err, "Failed to shutdown observability")
		}
	}()

	mux := s.setupRoutes(om)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:      om.HTTPMiddleware()(mux),
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}

	vaultClient, err := s.initializeVaultClient()
	if err != nil {
		return err
	}
	if err := s.configureTLS(httpServer, vaultClient, om); err != nil {
		return err
	}

	s.displayServerInfo()

	return s.serveUntilSignal(httpServer)
}

func (s *Server) initObservability() (*observability.ObservabilityManager, error) {
	obsCfg := observability.ObservabilityConfig{
		ServiceName:    s.AppConfig.Observability.ServiceName,
		ServiceVersion: s.Version,
		Enabled:        s.AppConfig.Observability.Enabled,
		ConsoleOutput:  s.AppConfig.Observability.ConsoleOutput,
		PrettyPrint:    s.AppConfig.Observability.Console.PrettyPrint,
		SampleRate:     s.AppConfig.Observability.SampleRate,
		Prometheus: observability.PrometheusConfig{
			Enabled:  s.AppConfig.Observability.Prometheus.Enabled,
			Endpoint: s.AppConfig.Observability.Prometheus.Endpoint,
			Port:     s.AppConfig.Observability.Prometheus.Port,
		},
	}

	om, err := observability.NewObservabilityManager(obsCfg, s.AppConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return om, nil
}

// serveUntilSignal runs the listener in a goroutine and waits for SIGINT,
// SIGTERM, or a listener error.
func (s *Server) serveUntilSignal(server *http.Server) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", server.Addr,
			"tls_enabled", server.TLSConfig != nil)

		if err := s.listen(server); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		s.Logger.Info("Received shutdown signal, starting graceful shutdown",
			"signal", sig.String())
		return s.shutdown(server)
	}
}

func (s *Server) listen(server *http.Server) error {
	if server.TLSConfig == nil {
		return server.ListenAndServe()
	}
	// Vault-sourced PEM content is already loaded into the TLS config,
	// so no file paths are passed in that case.
	if s.TLSConfig.CertContent != "" || s.TLSConfig.KeyContent != "" {
		return server.ListenAndServeTLS("", "")
	}
	return server.ListenAndServeTLS(s.TLSConfig.CertFile, s.TLSConfig.KeyFile)
}

// shutdown drains in-flight requests and releases background components.
func (s *Server) shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()

	if s.CertificateManager != nil {
		if err := s.CertificateManager.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop certificate manager")
		}
	}
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}
