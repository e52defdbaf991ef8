// Package otel provides OpenTelemetry metric bindings for ticketauth engine
// counters.
//
// [NewOTelExporter] registers an Int64ObservableCounter per engine counter
// plus the audit backpressure counter. A single callback reads
// [ticketauth.Engine.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider; callers supply the Meter.
//   - Mutate engine state.
package otel
