// Package prometheus renders goSeal engine metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [goSeal.Engine] and exposes an
// [http.Handler] that renders all engine counters and the validate latency
// histogram. Counter names are prefixed goseal_*_total; the single histogram
// is goseal_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
