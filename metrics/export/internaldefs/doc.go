// Package internaldefs holds the shared metric name/help table the exporters
// render from, so the Prometheus and OTel views of the engine counters never
// drift apart.
package internaldefs
