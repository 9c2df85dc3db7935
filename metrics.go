package pvec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics of
// snapshot storage. Implement this interface to integrate with monitoring
// systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    saveCounter  prometheus.Counter
//	    loadDuration prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordLoad(duration time.Duration, cached bool, err error) {
//	    p.loadDuration.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordSave is called after each snapshot save.
	// bytes is the encoded snapshot size, err is nil if successful.
	RecordSave(duration time.Duration, bytes int, err error)

	// RecordLoad is called after each snapshot load.
	// cached reports whether the snapshot bytes came from the cache.
	RecordLoad(duration time.Duration, cached bool, err error)

	// RecordDelete is called after each delete operation.
	RecordDelete(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSave(time.Duration, int, error)  {}
func (NoopMetricsCollector) RecordLoad(time.Duration, bool, error) {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SaveCount      atomic.Int64
	SaveErrors     atomic.Int64
	SaveBytes      atomic.Int64
	SaveTotalNanos atomic.Int64
	LoadCount      atomic.Int64
	LoadErrors     atomic.Int64
	LoadCacheHits  atomic.Int64
	LoadTotalNanos atomic.Int64
	DeleteCount    atomic.Int64
	DeleteErrors   atomic.Int64
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(duration time.Duration, bytes int, err error) {
	b.SaveCount.Add(1)
	b.SaveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SaveBytes.Add(int64(bytes))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, cached bool, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	if cached {
		b.LoadCacheHits.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SaveCount:     b.SaveCount.Load(),
		SaveErrors:    b.SaveErrors.Load(),
		SaveBytes:     b.SaveBytes.Load(),
		SaveAvgNanos:  avg(b.SaveTotalNanos.Load(), b.SaveCount.Load()),
		LoadCount:     b.LoadCount.Load(),
		LoadErrors:    b.LoadErrors.Load(),
		LoadCacheHits: b.LoadCacheHits.Load(),
		LoadAvgNanos:  avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		DeleteCount:   b.DeleteCount.Load(),
		DeleteErrors:  b.DeleteErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SaveCount     int64
	SaveErrors    int64
	SaveBytes     int64
	SaveAvgNanos  int64
	LoadCount     int64
	LoadErrors    int64
	LoadCacheHits int64
	LoadAvgNanos  int64
	DeleteCount   int64
	DeleteErrors  int64
}
