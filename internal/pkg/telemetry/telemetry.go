// Package telemetry wires OpenTelemetry tracing and names the attributes
// recorded on hull spans.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// InstrumentationName is the tracer name used by every package in the module.
const InstrumentationName = "github.com/samirrijal/hulltrace"

// Span attribute keys.
const (
	AttrAlgorithm  = attribute.Key("hull.algorithm")
	AttrInputSize  = attribute.Key("hull.input_size")
	AttrHullSize   = attribute.Key("hull.size")
	AttrStepCount  = attribute.Key("hull.step_count")
	AttrSuccessful = attribute.Key("hull.chan.successful_m")
	AttrIterations = attribute.Key("hull.chan.iterations")
	AttrCacheHit   = attribute.Key("hull.cache_hit")
)

// InitTracer installs a global tracer provider that exports spans over
// OTLP/gRPC to endpoint. The returned function flushes and stops it.
func InitTracer(ctx context.Context, serviceName, endpoint string) (func(), error) {
	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(attribute.String("service.name", serviceName)),
		resource.WithProcess(),
	)
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}, nil
}
