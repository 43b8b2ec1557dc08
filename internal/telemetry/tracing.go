// Package telemetry configures the global OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Init installs a tracer provider for mode ("none" or "stdout") and returns
// the function that flushes and stops it. With "none" the global no-op
// provider stays in place.
func Init(mode, version string) (func(context.Context) error, error) {
	return InitWith(mode, version, os.Stdout)
}

func InitWith(mode, version string, w io.Writer) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch mode {
	case "", "none":
		return noop, nil
	case "stdout":
	default:
		return noop, fmt.Errorf("unknown tracing mode %q", mode)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return noop, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", "goth-blog"),
		attribute.String("service.version", version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
