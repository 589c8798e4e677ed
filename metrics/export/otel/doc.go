// Package otel publishes engine counters and histograms through OpenTelemetry.
//
// [NewOTelExporter] registers one Int64ObservableCounter per counter family
// (taskauth.logins, taskauth.sessions, ...) and reports each series with the
// family label as an attribute. The resolve latency histogram is exposed as
// a ".bucket" gauge keyed by "le" plus a ".count" gauge. A single callback
// reads [taskauth.Engine.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider; callers supply the Meter.
//   - Mutate engine state.
package otel
