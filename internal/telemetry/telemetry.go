// Package telemetry configures OpenTelemetry tracing for backend calls.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation scope for this client.
const TracerName = "github.com/campusrec/campusrec"

// Setup installs a tracer provider writing spans to stderr when
// enabled, or a no-op provider otherwise. The returned shutdown
// function flushes pending spans and must be called on exit.
func Setup(enabled bool, logger *slog.Logger) (func(context.Context) error, error) {
	if !enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create stdout trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	logger.Debug("tracing enabled", "exporter", "stdout")

	return tp.Shutdown, nil
}

// Tracer returns the tracer for this client's instrumentation scope.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
