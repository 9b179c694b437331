// Package observability wires logging, metrics and tracing around the canvas
// engine.
//
// PURPOSE: The canvas core only knows a *zap.Logger and the store's event
// stream. This package builds the logger from configuration, turns store
// events and connection gestures into prometheus series, and installs the
// OpenTelemetry tracer used by the HTTP inspector.
//
// KEY PIECES:
//   - NewLogger: zap logger for the configured level and encoding
//   - Collector: prometheus registry fed by Store.Subscribe and by
//     connection.Observer callbacks
//   - InitTracing and TracingMiddleware: OTLP/gRPC exporter and per-request
//     server spans
package observability
