package observability

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"atscore/internal/config"
)

// GetObservabilityConfig maps application config onto ObservabilityConfig.
// With no config available it falls back to console output with full
// sampling, which suits local development.
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:    "atscore",
			ServiceVersion: version,
			Enabled:        true,
			ConsoleOutput:  true,
			PrettyPrint:    true,
			SampleRate:     1.0,
			Prometheus:     GetPrometheusConfig(cfg),
		}
	}

	obs := cfg.Observability
	serviceVersion := obs.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}

	return ObservabilityConfig{
		ServiceName:    obs.ServiceName,
		ServiceVersion: serviceVersion,
		Enabled:        obs.Enabled,
		ConsoleOutput:  obs.ConsoleOutput,
		PrettyPrint:    obs.Console.PrettyPrint,
		SampleRate:     obs.SampleRate,
		Prometheus: PrometheusConfig{
			Enabled:  obs.Prometheus.Enabled,
			Endpoint: obs.Prometheus.Endpoint,
			Port:     obs.Prometheus.Port,
		},
	}
}

// ObservabilityMiddleware adapts tracing to handlers written as plain
// functions rather than http.Handler values.
func ObservabilityMiddleware(om *ObservabilityManager) func(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
		return func(w http.ResponseWriter, r *http.Request) {
			if om.config.Enabled {
				tracer := om.Tracer("atscore.http")
				ctx, span := tracer.Start(r.Context(), r.URL.Path)
				defer span.End()

				span.SetAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.url", r.URL.String()),
					attribute.String("http.user_agent", r.UserAgent()),
				)
				r = r.WithContext(ctx)
			}
			next(w, r)
		}
	}
}
