package hugealloc

import (
	"sync/atomic"
	"time"
)

// Layout describes an allocation request: a size in bytes and an alignment
// that must be a power of two. Mappings are page-aligned, which dominates
// any practical alignment requirement; the alignment is carried so resizes
// can restore the original request.
type Layout struct {
	Size  int
	Align int
}

func (l Layout) validate() error {
	if l.Size <= 0 || l.Align <= 0 || l.Align&(l.Align-1) != 0 {
		return &ErrInvalidLayout{Size: l.Size, Align: l.Align}
	}

	return nil
}

// Allocator routes large requests to huge-page-backed anonymous mappings
// and everything else to a fallback system allocator. One Allocator owns
// one registry of live mappings; construct it once and share it.
type Allocator struct {
	threshold atomic.Int64
	closed    atomic.Bool

	reg     *registry
	system  SystemAllocator
	logger  *Logger
	metrics MetricsCollector
}

// New creates an Allocator. Requests of at least threshold bytes are served
// from their own mapping; threshold 0 disables interception entirely.
func New(threshold int, optFns ...Option) *Allocator {
	o := &options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
		system:  HeapAllocator{},
	}

	for _, fn := range optFns {
		fn(o)
	}

	a := &Allocator{
		reg:     newRegistry(o.controller),
		system:  o.system,
		logger:  o.logger,
		metrics: o.metrics,
	}

	a.threshold.Store(int64(threshold))

	return a
}

// Alloc returns a slice of layout.Size bytes. Requests meeting the threshold
// are backed by their own mapping; smaller ones come from the system
// allocator. The slice must later be passed to Dealloc or Realloc.
func (a *Allocator) Alloc(layout Layout) ([]byte, error) {
	return a.alloc(layout, false)
}

// AllocZeroed is Alloc with guaranteed zero-filled contents. The mapping
// path is identical to Alloc because anonymous mappings are zero-filled by
// the kernel; the system path uses the system allocator's zeroing routine.
func (a *Allocator) AllocZeroed(layout Layout) ([]byte, error) {
	return a.alloc(layout, true)
}

func (a *Allocator) alloc(layout Layout, zeroed bool) ([]byte, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}

	if err := layout.validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	if a.intercepts(layout.Size) {
		data, huge, err := a.reg.alloc(layout.Size, layout.Align)
		a.metrics.RecordAlloc(layout.Size, true, time.Since(start), err)
		a.logger.LogAlloc(layout.Size, huge, err)

		return data, err
	}

	var (
		data []byte
		err  error
	)

	if zeroed {
		data, err = a.system.AllocZeroed(layout.Size)
	} else {
		data, err = a.system.Alloc(layout.Size)
	}

	a.metrics.RecordAlloc(layout.Size, false, time.Since(start), err)

	return data, err
}

// Dealloc releases a slice returned by Alloc, AllocZeroed or Realloc. The
// layout is forwarded to the system allocator when the slice is not
// registry-managed.
func (a *Allocator) Dealloc(p []byte, layout Layout) {
	if a.closed.Load() || len(p) == 0 {
		return
	}

	start := time.Now()

	if a.reg.dealloc(p) {
		a.metrics.RecordDealloc(layout.Size, true, time.Since(start))
		return
	}

	a.system.Dealloc(p)
	a.metrics.RecordDealloc(layout.Size, false, time.Since(start))
}

// Realloc resizes p to newSize bytes, preserving min(len(p), newSize) bytes
// of payload. Depending on whether p is registry-managed and whether newSize
// meets the threshold, the buffer stays in the registry, crosses into or out
// of it, or is handled entirely by the system allocator.
func (a *Allocator) Realloc(p []byte, layout Layout, newSize int) ([]byte, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}

	newLayout := Layout{Size: newSize, Align: layout.Align}
	if err := newLayout.validate(); err != nil {
		return nil, err
	}

	if len(p) == 0 {
		return a.Alloc(newLayout)
	}

	start := time.Now()
	keep := a.intercepts(newSize)

	// The managed side runs in one registry critical section, covering both
	// the in-registry resize and the shrink below the threshold.
	data, res, handled, err := a.reg.realloc(p, newLayout.Size, newLayout.Align, keep, a.system)
	if handled {
		if res.fellBack {
			a.metrics.RecordResizeFallback()
			a.logger.LogResizeFallback(len(p), newSize)
		}

		a.metrics.RecordRealloc(len(p), newSize, res.moved, time.Since(start), err)

		return data, err
	}

	if keep {
		// Unmanaged pointer crossing the threshold upward.
		data, huge, err := a.reg.alloc(newLayout.Size, newLayout.Align)
		a.metrics.RecordRealloc(len(p), newSize, true, time.Since(start), err)

		if err != nil {
			return nil, err
		}

		a.logger.LogAlloc(newSize, huge, nil)
		copy(data, p[:min(len(p), newSize)])
		a.system.Dealloc(p)

		return data, nil
	}

	data, err = a.system.Realloc(p, newSize)
	a.metrics.RecordRealloc(len(p), newSize, true, time.Since(start), err)

	return data, err
}

// Stats returns a consistent snapshot of the registry and its counters.
func (a *Allocator) Stats() Stats {
	return a.reg.stats()
}

// Threshold returns the current interception threshold in bytes.
func (a *Allocator) Threshold() int {
	return int(a.threshold.Load())
}

// SetThreshold updates the interception threshold. 0 disables huge page
// interception for all subsequent calls; segments already managed are
// unaffected and remain managed until freed.
func (a *Allocator) SetThreshold(bytes int) {
	a.threshold.Store(int64(bytes))
	a.logger.LogThreshold(bytes)
}

func (a *Allocator) intercepts(size int) bool {
	t := a.threshold.Load()
	return t > 0 && int64(size) >= t
}
