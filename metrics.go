package hugealloc

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus. Callbacks run on the allocation path and must be cheap.
type MetricsCollector interface {
	// RecordAlloc is called after each Alloc/AllocZeroed. managed says
	// whether the request was routed to the mapping path.
	RecordAlloc(size int, managed bool, duration time.Duration, err error)

	// RecordDealloc is called after each Dealloc.
	RecordDealloc(size int, managed bool, duration time.Duration)

	// RecordRealloc is called after each Realloc. moved says whether the
	// returned buffer has a new base address.
	RecordRealloc(oldSize, newSize int, moved bool, duration time.Duration, err error)

	// RecordResizeFallback is called when an in-place resize failed and the
	// payload was copied into a fresh segment.
	RecordResizeFallback()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(int, bool, time.Duration, error)        {}
func (NoopMetricsCollector) RecordDealloc(int, bool, time.Duration)             {}
func (NoopMetricsCollector) RecordRealloc(int, int, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordResizeFallback()                              {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocCount        atomic.Int64
	AllocManaged      atomic.Int64
	AllocErrors       atomic.Int64
	AllocTotalNanos   atomic.Int64
	DeallocCount      atomic.Int64
	DeallocManaged    atomic.Int64
	ReallocCount      atomic.Int64
	ReallocMoves      atomic.Int64
	ReallocErrors     atomic.Int64
	ReallocTotalNanos atomic.Int64
	ResizeFallbacks   atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(_ int, managed bool, duration time.Duration, err error) {
	b.AllocCount.Add(1)
	b.AllocTotalNanos.Add(duration.Nanoseconds())

	if managed {
		b.AllocManaged.Add(1)
	}

	if err != nil {
		b.AllocErrors.Add(1)
	}
}

// RecordDealloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDealloc(_ int, managed bool, _ time.Duration) {
	b.DeallocCount.Add(1)

	if managed {
		b.DeallocManaged.Add(1)
	}
}

// RecordRealloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRealloc(_, _ int, moved bool, duration time.Duration, err error) {
	b.ReallocCount.Add(1)
	b.ReallocTotalNanos.Add(duration.Nanoseconds())

	if moved {
		b.ReallocMoves.Add(1)
	}

	if err != nil {
		b.ReallocErrors.Add(1)
	}
}

// RecordResizeFallback implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResizeFallback() {
	b.ResizeFallbacks.Add(1)
}
