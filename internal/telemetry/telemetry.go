// Package telemetry configures OpenTelemetry tracing for the server and the
// outbound GitHub calls.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/sakif/profile-viewer/internal/config"
)

// tracesPath is where an OTLP/HTTP collector accepts spans.
const tracesPath = "/v1/traces"

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Init installs a global tracer provider exporting over OTLP/HTTP.
// With no endpoint configured it only sets the propagator and returns a
// no-op shutdown, leaving otel's default no-op tracer in place.
func Init(ctx context.Context, cfg config.Config, logger *slog.Logger) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.Telemetry.OTLPEndpoint == "" {
		logger.Debug("tracing disabled: OTEL_EXPORTER_OTLP_ENDPOINT is empty")
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.Telemetry.ServiceName),
			attribute.String("deployment.environment", cfg.AppEnv),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create resource: %w", err)
	}

	opts, err := exporterOptions(cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.Insecure)
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create trace exporter: %w", err)
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	logger.Info("tracing enabled",
		slog.String("endpoint", cfg.Telemetry.OTLPEndpoint),
		slog.String("service", cfg.Telemetry.ServiceName),
	)

	return func(shutdownCtx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(shutdownCtx, 5*time.Second)
		defer cancel()
		return provider.Shutdown(shutdownCtx)
	}, nil
}

// exporterOptions accepts the endpoint either as a URL
// ("http://collector:4318", the usual OTEL_EXPORTER_OTLP_ENDPOINT form) or as
// a bare "host:port". A URL is a base address, so /v1/traces is appended
// unless it is already there; its scheme decides TLS.
func exporterOptions(endpoint string, insecure bool) ([]otlptracehttp.Option, error) {
	var opts []otlptracehttp.Option

	if strings.Contains(endpoint, "://") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("telemetry: invalid OTLP endpoint: %w", err)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("telemetry: invalid OTLP endpoint %q: missing host", endpoint)
		}
		if !strings.HasSuffix(u.Path, tracesPath) {
			u.Path = strings.TrimRight(u.Path, "/") + tracesPath
		}
		opts = append(opts, otlptracehttp.WithEndpointURL(u.String()))
	} else {
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
	}

	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return opts, nil
}
