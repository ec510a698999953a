package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"

	"atscore/internal/config"
)

// PrometheusConfig controls the metrics scrape endpoint.
type PrometheusConfig struct {
	Enabled  bool
	Endpoint string
	Port     string
}

// GetPrometheusConfig maps application config onto PrometheusConfig,
// falling back to a /metrics endpoint on 9090 when no config is present.
func GetPrometheusConfig(cfg *config.Config) PrometheusConfig {
	if cfg == nil {
		return PrometheusConfig{
			Enabled:  true,
			Endpoint: "/metrics",
			Port:     "9090",
		}
	}
	return PrometheusConfig{
		Enabled:  cfg.Observability.Prometheus.Enabled,
		Endpoint: cfg.Observability.Prometheus.Endpoint,
		Port:     cfg.Observability.Prometheus.Port,
	}
}

// SetupPrometheusExporter builds an OTel metric reader backed by the
// default Prometheus registry, plus a mux serving the scrape endpoint.
// Returns nils when the exporter is disabled.
func SetupPrometheusExporter(cfg PrometheusConfig) (metric.Reader, *http.ServeMux, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Endpoint, promhttp.Handler())
	return exporter, mux, nil
}

// StartPrometheusServer serves the scrape endpoint on its own port in a
// background goroutine. A nil mux is a no-op.
func StartPrometheusServer(mux *http.ServeMux, port string) error {
	if mux == nil {
		return nil
	}

	addr := ":" + port
	fmt.Printf("Starting Prometheus metrics server on http://localhost%s\n", addr)
	fmt.Printf("Metrics available at: http://localhost%s/metrics\n", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Prometheus server error: %v\n", err)
		}
	}()
	return nil
}
