package observability

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName names the tracer used for all spans of this module.
const TracerName = "github.com/specialistvlad/odegrid"

// TracingConfig governs how tracing is initialised.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	// Writer receives the exported spans as JSON lines.
	Writer io.Writer
}

// InitTracing installs a global tracer provider. When tracing is disabled a
// no-op provider is installed. The returned function flushes and stops the
// provider.
func InitTracing(ctx context.Context, cfg TracingConfig) (func(context.Context) error, error) {
	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	opts := []stdouttrace.Option{stdouttrace.WithoutTimestamps()}
	if cfg.Writer != nil {
		opts = append(opts, stdouttrace.WithWriter(cfg.Writer))
	}
	exp, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	service := cfg.ServiceName
	if service == "" {
		service = "odegrid"
	}
	res := resource.NewSchemaless(attribute.String("service.name", service))

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

// StartStage starts a span for one processing stage of a model.
func StartStage(ctx context.Context, stage, modelName string) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, "odegrid."+stage,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("odegrid.stage", stage),
			attribute.String("odegrid.model", modelName),
		),
	)
}

// RecordValidation annotates a validation span with its outcome.
func RecordValidation(span trace.Span, warnings int, err error) {
	span.SetAttributes(
		attribute.String("odegrid.validation.outcome", Outcome(err)),
		attribute.Int("odegrid.validation.warnings", warnings),
	)
	RecordError(span, err)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
