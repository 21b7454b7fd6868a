// Package observability provides Prometheus metrics and OpenTelemetry tracing
// for the model processing pipeline.
//
// Both are optional. A nil *Collector accepts every call and records nothing,
// and with tracing disabled the spans go to a no-op provider.
package observability
