package vecdist

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see metrics/promcollector for a ready-made one.
type MetricsCollector interface {
	// RecordLoad is called after each vector set load.
	// bytes is the size of the decoded row data, err is nil if successful.
	RecordLoad(bytes int64, duration time.Duration, err error)

	// RecordPairwise is called after each pairwise computation.
	// pairs is the number of distances computed.
	RecordPairwise(pairs int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int64, time.Duration, error)   {}
func (NoopMetricsCollector) RecordPairwise(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
	LoadBytes          atomic.Int64
	LoadTotalNanos     atomic.Int64
	PairwiseCount      atomic.Int64
	PairwiseErrors     atomic.Int64
	PairwisePairs      atomic.Int64
	PairwiseTotalNanos atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(bytes)
}

// RecordPairwise implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPairwise(pairs int, duration time.Duration, err error) {
	b.PairwiseCount.Add(1)
	b.PairwiseTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PairwiseErrors.Add(1)
		return
	}
	b.PairwisePairs.Add(int64(pairs))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		LoadBytes:        b.LoadBytes.Load(),
		LoadAvgNanos:     avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		PairwiseCount:    b.PairwiseCount.Load(),
		PairwiseErrors:   b.PairwiseErrors.Load(),
		PairwisePairs:    b.PairwisePairs.Load(),
		PairwiseAvgNanos: avg(b.PairwiseTotalNanos.Load(), b.PairwiseCount.Load()),
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
	LoadCount        int64
	LoadErrors       int64
	LoadBytes        int64
	LoadAvgNanos     int64
	PairwiseCount    int64
	PairwiseErrors   int64
	PairwisePairs    int64
	PairwiseAvgNanos int64
}
