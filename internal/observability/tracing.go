package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer wires a global TracerProvider exporting spans over OTLP
// gRPC to collectorEndpoint. Every request dispatch is wrapped in a
// span by the dispatcher once this has run (the event pump opens no
// spans); before it runs, otel's default no-op provider absorbs those
// spans harmlessly, so tracing is opt-in at process startup rather than
// load-bearing for correctness.
func InitTracer(ctx context.Context, serviceName, collectorEndpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(collectorEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: build otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(adapterVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// adapterVersion is stamped into the service.version resource
// attribute; bump it alongside release tags.
const adapterVersion = "0.1.0"

// Tracer returns the adapter's named tracer. Call sites use this
// rather than otel.Tracer(name) directly so the name stays in one
// place.
func Tracer() trace.Tracer {
	return otel.Tracer("lldb-adapter")
}

// DispatchSpanName builds the span name the dispatcher opens around
// one request: "adapter.dispatch.<Variant>".
func DispatchSpanName(variant string) string {
	return "adapter.dispatch." + variant
}
