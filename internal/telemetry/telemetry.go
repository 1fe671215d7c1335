// Package telemetry installs the process-wide OpenTelemetry tracer provider
// that receives the page lifecycle spans.
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/MrSnakeDoc/campstats/internal/config"
	"github.com/MrSnakeDoc/campstats/internal/logger"
	"github.com/MrSnakeDoc/campstats/internal/version"
)

// Shutdown flushes pending spans and stops the exporter.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Setup installs a tracer provider for the given exporter (config.TraceNone or
// config.TraceStdout). Spans are written to out. With TraceNone the global
// provider is left untouched and spans stay no-ops.
func Setup(exporter string, out io.Writer, log logger.Logger) (Shutdown, error) {
	switch exporter {
	case "", config.TraceNone:
		log.Debug("tracing disabled")
		return noop, nil
	case config.TraceStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("stdout span exporter: %w", err)
		}
		tp := NewProvider(sdktrace.WithBatcher(exp))
		otel.SetTracerProvider(tp)
		log.Info("tracing enabled", logger.String("exporter", exporter))
		return tp.Shutdown, nil
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", exporter)
	}
}

// NewProvider returns a tracer provider tagged with the service name and build version.
func NewProvider(opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	res := resource.NewSchemaless(
		attribute.String("service.name", "campstats"),
		attribute.String("service.version", version.Version),
	)
	return sdktrace.NewTracerProvider(append([]sdktrace.TracerProviderOption{sdktrace.WithResource(res)}, opts...)...)
}
