package internaldefs

import (
	goSeal "github.com/MrEthical07/goSeal"
)

// CounterDef maps one engine counter to its exported name and help text.
type CounterDef struct {
	ID   goSeal.MetricID
	Name string
	Help string
}

// HistogramDef maps one engine histogram to its exported name and help text.
type HistogramDef struct {
	ID   goSeal.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: goSeal.MetricIssueSuccess, Name: "goseal_issue_success_total", Help: "Successfully issued tokens."},
	{ID: goSeal.MetricIssueFailure, Name: "goseal_issue_failure_total", Help: "Failed token issuances."},
	{ID: goSeal.MetricValidateSuccess, Name: "goseal_validate_success_total", Help: "Accepted validations."},
	{ID: goSeal.MetricValidateFailure, Name: "goseal_validate_failure_total", Help: "Rejected validations other than revocation."},
	{ID: goSeal.MetricValidateRevoked, Name: "goseal_validate_revoked_total", Help: "Validations rejected due to revocation."},
	{ID: goSeal.MetricCacheHit, Name: "goseal_cache_hit_total", Help: "Validation cache hits."},
	{ID: goSeal.MetricCacheMiss, Name: "goseal_cache_miss_total", Help: "Validation cache misses."},
	{ID: goSeal.MetricRevocationCleanup, Name: "goseal_revocation_cleanup_total", Help: "Completed revocation cleanup sweeps."},
}

var HistogramDefs = []HistogramDef{
	{ID: goSeal.MetricValidateLatency, Name: "goseal_validate_latency_seconds", Help: "Validate latency histogram."},
}

// HistogramBounds are the engine's microsecond bucket boundaries expressed
// in seconds, matching the Prometheus le convention.
var HistogramBounds = []string{
	"0.000005",
	"0.00001",
	"0.000025",
	"0.00005",
	"0.0001",
	"0.00025",
	"0.001",
	"+Inf",
}

// HistogramBoundSuffix names each bucket for backends that cannot carry an
// le label, such as flat OTel gauge names.
var HistogramBoundSuffix = []string{
	"5us",
	"10us",
	"25us",
	"50us",
	"100us",
	"250us",
	"1ms",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative counts
// Prometheus histograms expose.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
