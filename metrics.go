package sparsebayes

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordFit is called after each fit. iterations is the number of
	// completed iterations, duration the total time taken, err is nil
	// if successful.
	RecordFit(iterations int, duration time.Duration, err error)

	// RecordPredict is called after each prediction. samples is the
	// number of rows predicted.
	RecordPredict(samples int, duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot save.
	RecordSnapshot(duration time.Duration, err error)

	// RecordLoad is called after each snapshot load.
	RecordLoad(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFit(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordPredict(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSnapshot(time.Duration, error)     {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FitCount         atomic.Int64
	FitErrors        atomic.Int64
	FitIterations    atomic.Int64
	FitTotalNanos    atomic.Int64
	PredictCount     atomic.Int64
	PredictErrors    atomic.Int64
	PredictSamples   atomic.Int64
	PredictTotalNano atomic.Int64
	SnapshotCount    atomic.Int64
	SnapshotErrors   atomic.Int64
	LoadCount        atomic.Int64
	LoadErrors       atomic.Int64
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(iterations int, duration time.Duration, err error) {
	b.FitCount.Add(1)
	b.FitIterations.Add(int64(iterations))
	b.FitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FitErrors.Add(1)
	}
}

// RecordPredict implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPredict(samples int, duration time.Duration, err error) {
	b.PredictCount.Add(1)
	b.PredictSamples.Add(int64(samples))
	b.PredictTotalNano.Add(duration.Nanoseconds())
	if err != nil {
		b.PredictErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FitCount:       b.FitCount.Load(),
		FitErrors:      b.FitErrors.Load(),
		FitIterations:  b.FitIterations.Load(),
		FitAvgNanos:    b.getAvgFitNanos(),
		PredictCount:   b.PredictCount.Load(),
		PredictErrors:  b.PredictErrors.Load(),
		PredictSamples: b.PredictSamples.Load(),
		SnapshotCount:  b.SnapshotCount.Load(),
		SnapshotErrors: b.SnapshotErrors.Load(),
		LoadCount:      b.LoadCount.Load(),
		LoadErrors:     b.LoadErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgFitNanos() int64 {
	count := b.FitCount.Load()
	if count == 0 {
		return 0
	}
	return b.FitTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FitCount       int64
	FitErrors      int64
	FitIterations  int64
	FitAvgNanos    int64
	PredictCount   int64
	PredictErrors  int64
	PredictSamples int64
	SnapshotCount  int64
	SnapshotErrors int64
	LoadCount      int64
	LoadErrors     int64
}
