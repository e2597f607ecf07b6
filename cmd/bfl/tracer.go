package main

import (
	"context"

	// Packages
	version "github.com/mutablelogic/go-bfl/pkg/version"
	attribute "go.opentelemetry.io/otel/attribute"
	otlptracehttp "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	resource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	trace "go.opentelemetry.io/otel/trace"
	noop "go.opentelemetry.io/otel/trace/noop"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// newTracer returns a tracer which exports spans to the collector at
// endpoint, and a function which flushes and stops the exporter. With no
// endpoint, spans are discarded and the shutdown function is nil.
func newTracer(ctx context.Context, endpoint, name string) (trace.Tracer, func(context.Context) error, error) {
	if endpoint == "" {
		return noop.NewTracerProvider().Tracer(name), nil, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", name),
			attribute.String("service.version", version.Version()),
		)),
	)

	return provider.Tracer(name), provider.Shutdown, nil
}
