package goSeal

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricIssueSuccess counts successfully built tokens.
	MetricIssueSuccess MetricID = iota
	// MetricIssueFailure counts TokenBuilder.Build failures.
	MetricIssueFailure
	// MetricValidateSuccess counts accepted validations.
	MetricValidateSuccess
	// MetricValidateFailure counts rejections other than revocation.
	MetricValidateFailure
	// MetricValidateRevoked counts rejections due to revocation.
	MetricValidateRevoked
	// MetricCacheHit counts validation cache hits.
	MetricCacheHit
	// MetricCacheMiss counts validation cache misses.
	MetricCacheMiss
	// MetricRevocationCleanup counts completed cleanup sweeps.
	MetricRevocationCleanup
	// MetricValidateLatency is the histogram id for Validate duration.
	MetricValidateLatency

	metricIDCount
)

const cacheLineSize = 64

// paddedCounter keeps each hot counter on its own cache line so concurrent
// Validate calls do not false-share.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

const histBucketCount = 8

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

// Metrics is the engine's internal counter set. A nil or disabled Metrics
// is safe to use and does nothing.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// NewMetrics builds a counter set from configuration.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recording.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the Validate latency histogram is recording.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records one Validate duration into the latency histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id != MetricValidateLatency {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || !m.enabled || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// MetricsSnapshot is a point-in-time copy of every counter and histogram.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// Snapshot copies the current counter values. Disabled metrics snapshot to
// empty maps.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricValidateLatency].buckets[i])
		}
		s.Histograms[MetricValidateLatency] = buckets
	}

	return s
}

// bucketIndex maps a Validate duration to a histogram bucket. Buckets are
// microsecond-scaled: symmetric crypto validation is far below a millisecond.
func bucketIndex(d time.Duration) int {
	us := d.Microseconds()

	switch {
	case us <= 5:
		return 0
	case us <= 10:
		return 1
	case us <= 25:
		return 2
	case us <= 50:
		return 3
	case us <= 100:
		return 4
	case us <= 250:
		return 5
	case us <= 1000:
		return 6
	default:
		return 7
	}
}
