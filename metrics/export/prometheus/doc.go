// Package prometheus renders engine metrics in Prometheus text exposition format.
//
// [NewPrometheusExporter] reads [taskauth.Engine.MetricsSnapshot] on every scrape.
// Counters are grouped into families such as taskauth_logins_total{result="success"};
// the single histogram is taskauth_resolve_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate engine state.
package prometheus
