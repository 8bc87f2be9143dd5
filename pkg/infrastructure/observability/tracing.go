package observability

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TracingConfig configures the tracer.
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	SampleRate     float64
	// Output receives exported spans when Enabled; spans are written as JSON.
	Output io.Writer
}

// TracingManager manages OpenTelemetry tracing
type TracingManager struct {
	config   TracingConfig
	provider *trace.TracerProvider
	tracer   oteltrace.Tracer
}

// NewTracingManager creates a new tracing manager
func NewTracingManager(config TracingConfig) *TracingManager {
	return &TracingManager{config: config}
}

// Initialize initializes the tracing system
func (tm *TracingManager) Initialize(ctx context.Context) error {
	if !tm.config.Enabled {
		// no-op tracer from the global provider
		tm.tracer = otel.Tracer(tm.config.ServiceName)
		return nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(tm.config.ServiceName),
		semconv.ServiceVersion(tm.config.ServiceVersion),
	))
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []stdouttrace.Option{}
	if tm.config.Output != nil {
		opts = append(opts, stdouttrace.WithWriter(tm.config.Output))
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	rate := tm.config.SampleRate
	if rate <= 0 {
		rate = 1.0
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(rate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tm.provider = tp
	tm.tracer = tp.Tracer(tm.config.ServiceName)
	return nil
}

// Shutdown flushes and stops the tracer provider.
func (tm *TracingManager) Shutdown(ctx context.Context) error {
	if tm.provider != nil {
		return tm.provider.Shutdown(ctx)
	}
	return nil
}

// StartSpan starts a new tracing span
func (tm *TracingManager) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	if tm == nil || tm.tracer == nil {
		return ctx, oteltrace.SpanFromContext(ctx)
	}
	return tm.tracer.Start(ctx, name, oteltrace.WithAttributes(attrs...))
}

// RecordError records an error in the span
func RecordError(span oteltrace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
