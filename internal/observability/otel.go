// Package observability wires OpenTelemetry tracing and metrics for the
// scoring service: console exporters for development, OTLP and Prometheus
// for production, plus the business counters emitted by the HTTP handlers.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"atscore/internal/config"
)

// ObservabilityConfig is the flattened observability configuration the
// manager operates on.
type ObservabilityConfig struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	ConsoleOutput  bool
	PrettyPrint    bool
	SampleRate     float64
	Prometheus     PrometheusConfig
}

// Metrics holds the service's custom instruments. Fields stay nil when
// observability is disabled; every record path tolerates that.
type Metrics struct {
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	MatchesScored         metric.Int64Counter
	ReportsGenerated      metric.Int64Counter
	QuestionsSuggested    metric.Int64Counter
	ResumesTailored       metric.Int64Counter
	CoverLettersGenerated metric.Int64Counter
	QuestionsAnswered     metric.Int64Counter

	CertReloadCount metric.Int64Counter
	CertExpiryTime  metric.Float64Gauge

	RateLimitHits metric.Int64Counter
}

// ObservabilityManager owns the OTel providers and their shutdown.
type ObservabilityManager struct {
	config        ObservabilityConfig
	fullConfig    *config.Config
	tracerProv    *trace.TracerProvider
	meterProv     *sdkmetric.MeterProvider
	metrics       *Metrics
	shutdownFuncs []func(context.Context) error
	prometheusMux *http.ServeMux
}

// NewObservabilityManager initializes tracing and metrics. A disabled
// config yields an inert manager whose middleware and tracer are no-ops.
func NewObservabilityManager(obsConfig ObservabilityConfig, fullConfig *config.Config) (*ObservabilityManager, error) {
	om := &ObservabilityManager{config: obsConfig, fullConfig: fullConfig}
	if !obsConfig.Enabled {
		return om, nil
	}

	if err := om.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := om.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return om, nil
}

// serviceResource describes this service instance for exporters.
func (om *ObservabilityManager) serviceResource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(om.config.ServiceName),
			semconv.ServiceVersion(om.config.ServiceVersion),
			attribute.String("service.instance.id", om.serviceInstanceID()),
		),
	)
}

func (om *ObservabilityManager) serviceInstanceID() string {
	if om.fullConfig != nil && om.fullConfig.Observability.ServiceInstance != "" {
		return om.fullConfig.Observability.ServiceInstance
	}
	return "atscore-1"
}

func (om *ObservabilityManager) collectionInterval() time.Duration {
	if om.fullConfig != nil {
		return om.fullConfig.Observability.Metrics.CollectionInterval
	}
	return 15 * time.Second
}

func (om *ObservabilityManager) initTracing() error {
	exporter, err := om.spanExporter()
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := om.serviceResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(om.config.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	om.tracerProv = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

// spanExporter selects console, OTLP, or discard output for spans.
func (om *ObservabilityManager) spanExporter() (trace.SpanExporter, error) {
	switch {
	case om.config.ConsoleOutput:
		var opts []stdouttrace.Option
		if om.config.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		return stdouttrace.New(opts...)
	case om.fullConfig != nil && om.fullConfig.Observability.OTLP.Enabled:
		return om.otlpSpanExporter()
	default:
		return discardSpanExporter{}, nil
	}
}

func (om *ObservabilityManager) initMetrics() error {
	readers, err := om.metricReaders()
	if err != nil {
		return err
	}

	res, err := om.serviceResource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	om.meterProv = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	return om.createInstruments()
}

// metricReaders assembles the configured exporters. With nothing enabled
// a manual reader keeps the meter provider functional.
func (om *ObservabilityManager) metricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if om.config.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(om.collectionInterval())))
	}

	if om.fullConfig != nil && om.fullConfig.Observability.OTLP.Enabled {
		reader, err := om.otlpMetricsReader()
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		readers = append(readers, reader)
	}

	if om.config.Prometheus.Enabled {
		reader, mux, err := SetupPrometheusExporter(om.config.Prometheus)
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		if reader != nil {
			readers = append(readers, reader)
			om.prometheusMux = mux
			if err := StartPrometheusServer(mux, om.config.Prometheus.Port); err != nil {
				return nil, fmt.Errorf("failed to start Prometheus server: %w", err)
			}
		}
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}
	return readers, nil
}

// createInstruments registers every custom instrument with the meter.
func (om *ObservabilityManager) createInstruments() error {
	meter := om.meterProv.Meter(om.config.ServiceName)
	m := &Metrics{}
	var err error

	histogram := func(name, desc, unit string) metric.Float64Histogram {
		if err != nil {
			return nil
		}
		var h metric.Float64Histogram
		h, err = meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit(unit))
		return h
	}
	counter := func(name, desc string) metric.Int64Counter {
		if err != nil {
			return nil
		}
		var c metric.Int64Counter
		c, err = meter.Int64Counter(name, metric.WithDescription(desc))
		return c
	}

	m.AIProcessingTime = histogram("atscore_ai_processing_duration_seconds",
		"Time spent processing AI requests", "s")
	m.AIRequestCount = counter("atscore_ai_requests_total",
		"Total number of AI requests")
	m.AIErrorCount = counter("atscore_ai_errors_total",
		"Total number of AI request errors")
	if err == nil {
		m.AITokenUsage, err = meter.Int64Histogram("atscore_ai_token_usage_total",
			metric.WithDescription("Token usage for AI requests (input, output, total)"),
			metric.WithUnit("tokens"))
	}

	m.MatchesScored = counter("atscore_matches_scored_total",
		"Total number of resumes scored against job descriptions")
	m.ReportsGenerated = counter("atscore_reports_generated_total",
		"Total number of ATS reports generated")
	m.QuestionsSuggested = counter("atscore_questions_suggested_total",
		"Total number of question suggestion runs")
	m.ResumesTailored = counter("atscore_resumes_tailored_total",
		"Total number of resumes tailored")
	m.CoverLettersGenerated = counter("atscore_cover_letters_generated_total",
		"Total number of cover letters generated")
	m.QuestionsAnswered = counter("atscore_questions_answered_total",
		"Total number of application questions answered")

	m.CertReloadCount = counter("atscore_cert_reloads_total",
		"Total number of certificate reloads")
	if err == nil {
		m.CertExpiryTime, err = meter.Float64Gauge("atscore_cert_expiry_seconds",
			metric.WithDescription("Seconds until certificate expiry"),
			metric.WithUnit("s"))
	}

	m.RateLimitHits = counter("atscore_rate_limit_hits_total",
		"Total number of rate limit hits")

	if err != nil {
		return fmt.Errorf("failed to create metrics instruments: %w", err)
	}
	om.metrics = m
	return nil
}

// GetMetrics never returns nil; a disabled manager hands out an empty
// Metrics whose record paths are no-ops.
func (om *ObservabilityManager) GetMetrics() *Metrics {
	if om.metrics == nil {
		return &Metrics{}
	}
	return om.metrics
}

// HTTPMiddleware wraps handlers with otelhttp instrumentation.
func (om *ObservabilityManager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !om.config.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}
	return otelhttp.NewMiddleware(
		om.config.ServiceName,
		otelhttp.WithTracerProvider(om.tracerProv),
		otelhttp.WithMeterProvider(om.meterProv),
	)
}

// Tracer returns a tracer, or a noop tracer when disabled.
func (om *ObservabilityManager) Tracer(name string) oteltrace.Tracer {
	if !om.config.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown flushes and stops every provider.
func (om *ObservabilityManager) Shutdown(ctx context.Context) error {
	for _, fn := range om.shutdownFuncs {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// AIOperationResult is what an instrumented AI call reports back.
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TokenUsage mirrors the usage block of a provider response.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// TrackAIOperationWithTokens runs fn inside a span and records duration,
// request count, errors, and token usage. With metrics uninitialized the
// function runs directly.
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult, om *ObservabilityManager) error {
	if m.AIProcessingTime == nil {
		result := fn(ctx)
		if result != nil {
			return result.Error
		}
		return nil
	}

	tracer := otel.Tracer("atscore.ai")
	ctx, span := tracer.Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	if m.aiMetricsEnabled(om) {
		attrs := []attribute.KeyValue{
			attribute.String("operation", operation),
			attribute.Bool("success", err == nil),
		}

		if om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.AIOperations.TrackDuration {
			m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
		}
		m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
		if err != nil {
			m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
		m.recordTokenUsage(ctx, result, attrs, om, span)

		span.SetAttributes(attrs...)
	}

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
	return err
}

func (m *Metrics) aiMetricsEnabled(om *ObservabilityManager) bool {
	if om.fullConfig == nil {
		return true
	}
	return om.fullConfig.Observability.CustomMetrics.AIOperations.Enabled
}

// recordTokenUsage emits one histogram sample per token type and mirrors
// the counts onto the span for trace-side debugging.
func (m *Metrics) recordTokenUsage(ctx context.Context, result *AIOperationResult, attrs []attribute.KeyValue, om *ObservabilityManager, span oteltrace.Span) {
	if result == nil || result.TokenUsage == nil || m.AITokenUsage == nil {
		return
	}
	usage := result.TokenUsage

	if om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.AIOperations.TrackTokenUsage {
		for _, tt := range []struct {
			kind  string
			value int64
		}{
			{"input", usage.InputTokens},
			{"output", usage.OutputTokens},
			{"total", usage.TotalTokens},
		} {
			tokenAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
			tokenAttrs = append(tokenAttrs, attrs...)
			tokenAttrs = append(tokenAttrs, attribute.String("token_type", tt.kind))
			m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(tokenAttrs...))
		}
	}

	span.SetAttributes(
		attribute.Int64("ai.tokens.input", usage.InputTokens),
		attribute.Int64("ai.tokens.output", usage.OutputTokens),
		attribute.Int64("ai.tokens.total", usage.TotalTokens),
	)
}

// RecordBusinessMetric increments the counter registered for metricType.
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	if om.fullConfig != nil && !om.fullConfig.Observability.CustomMetrics.BusinessMetrics.Enabled {
		return
	}

	attrs := append([]attribute.KeyValue{
		attribute.Bool("success", success),
	}, attributes...)

	if metricType == "rate_limit_hit" {
		// Rate limiting rolls up under infrastructure metrics, which
		// have their own toggle.
		if om != nil && om.fullConfig != nil && !om.fullConfig.Observability.CustomMetrics.Infrastructure.TrackRateLimits {
			return
		}
		if m.RateLimitHits != nil {
			m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
		return
	}

	if counter := m.businessCounter(metricType); counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// businessCounter maps a metric type to its instrument. Unknown types
// and uninitialized instruments both come back nil.
func (m *Metrics) businessCounter(metricType string) metric.Int64Counter {
	switch metricType {
	case "match_scored":
		return m.MatchesScored
	case "report_generated":
		return m.ReportsGenerated
	case "questions_suggested":
		return m.QuestionsSuggested
	case "resume_tailored":
		return m.ResumesTailored
	case "cover_letter_generated":
		return m.CoverLettersGenerated
	case "question_answered":
		return m.QuestionsAnswered
	}
	return nil
}

// discardSpanExporter drops spans when no exporter is configured.
type discardSpanExporter struct{}

func (discardSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (discardSpanExporter) Shutdown(ctx context.Context) error { return nil }

func (om *ObservabilityManager) otlpSpanExporter() (trace.SpanExporter, error) {
	otlpCfg := om.fullConfig.Observability.OTLP

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(otlpCfg.Endpoint),
	}
	if otlpCfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(otlpCfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(otlpCfg.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

func (om *ObservabilityManager) otlpMetricsReader() (sdkmetric.Reader, error) {
	otlpCfg := om.fullConfig.Observability.OTLP

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(otlpCfg.Endpoint),
	}
	if otlpCfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(otlpCfg.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(otlpCfg.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter,
		sdkmetric.WithInterval(om.collectionInterval())), nil
}
