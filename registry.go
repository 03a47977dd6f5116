package hugealloc

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/hupe1980/hugealloc/internal/segment"
	"github.com/hupe1980/hugealloc/resource"
)

// registry owns the set of live segments keyed by base address, plus the
// missed-allocation and failed-resize counters. One mutex covers both the
// table and the counters so a stats snapshot can never observe a table
// update without its counter update.
//
// The table itself is an ordinary Go map: its growth allocates on the Go
// heap and never re-enters the huge page path, so a thread cannot deadlock
// against a lock it already holds.
type registry struct {
	mu       sync.Mutex
	segments map[uintptr]*segment.Segment

	missedAllocs  uint64
	missedBytes   uint64
	missedMB      uint64
	failedResizes uint64

	res *resource.Controller // optional mapped-memory budget, nil-safe
}

func newRegistry(res *resource.Controller) *registry {
	return &registry{res: res}
}

// reallocResult describes what a managed realloc did.
type reallocResult struct {
	moved    bool
	fellBack bool
}

func (r *registry) alloc(size, align int) ([]byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.allocLocked(size, align)
}

func (r *registry) allocLocked(size, align int) ([]byte, bool, error) {
	seg, err := segment.Create(size, align)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrMappingFailed, err)
	}

	if !r.res.TryAcquire(int64(seg.MappedSize())) {
		if err := seg.Close(); err != nil {
			panic(panicUnmapFailed)
		}
		return nil, false, ErrBudgetExceeded
	}

	if !seg.HugePages() {
		// The request was large enough to want huge pages but did not get
		// them.
		r.addMissedLocked(size)
	}

	r.insertLocked(seg)

	return seg.Bytes(), seg.HugePages(), nil
}

// dealloc removes and unmaps the segment at p's base address. It reports
// whether p was managed, telling the caller whether a system-level dealloc
// is still required.
func (r *registry) dealloc(p []byte) bool {
	base := sliceBase(p)

	r.mu.Lock()
	defer r.mu.Unlock()

	seg, ok := r.segments[base]
	if !ok {
		return false
	}

	r.removeLocked(base, seg)

	return true
}

// realloc handles the managed side of a realloc in a single critical
// section, so the membership test cannot go stale between lookup and action.
// keep says whether the new size still belongs in the registry; when it does
// not, the payload is copied into a system allocation and the segment is
// dropped. handled is false when p is not managed at all.
func (r *registry) realloc(p []byte, size, align int, keep bool, sys SystemAllocator) (data []byte, res reallocResult, handled bool, err error) {
	base := sliceBase(p)

	r.mu.Lock()
	defer r.mu.Unlock()

	seg, ok := r.segments[base]
	if !ok {
		return nil, reallocResult{}, false, nil
	}

	if !keep {
		data, err = r.reallocOutLocked(base, seg, size, sys)
		return data, reallocResult{moved: true}, true, err
	}

	data, res, err = r.reallocLocked(base, seg, size, align)

	return data, res, true, err
}

func (r *registry) reallocLocked(base uintptr, seg *segment.Segment, size, align int) ([]byte, reallocResult, error) {
	delete(r.segments, base)

	wasDefault := !seg.HugePages()
	oldSize := seg.Size()

	if r.resizeLocked(seg, size, align) {
		if wasDefault && size > oldSize {
			// The grown portion also missed out on huge pages.
			r.addMissedLocked(size - oldSize)
		}

		r.insertLocked(seg)

		return seg.Bytes(), reallocResult{moved: seg.Base() != base}, nil
	}

	// In-place resize failed; allocate a fresh segment, carry the payload
	// over and drop the old mapping.
	r.failedResizes++

	data, _, err := r.allocLocked(size, align)
	if err != nil {
		// Keep the old segment alive; the caller's buffer is still valid.
		r.segments[base] = seg
		return nil, reallocResult{}, err
	}

	copy(data, seg.Bytes()[:min(oldSize, size)])

	mapped := seg.MappedSize()
	if err := seg.Close(); err != nil {
		panic(panicUnmapFailed)
	}
	r.res.Release(int64(mapped))

	return data, reallocResult{moved: true, fellBack: true}, nil
}

// reallocOutLocked moves a managed payload into a system allocation because
// the new size no longer meets the threshold.
func (r *registry) reallocOutLocked(base uintptr, seg *segment.Segment, size int, sys SystemAllocator) ([]byte, error) {
	data, err := sys.Alloc(size)
	if err != nil {
		return nil, err
	}

	copy(data, seg.Bytes()[:min(seg.Size(), size)])

	r.removeLocked(base, seg)

	return data, nil
}

// resizeLocked wraps Segment.Resize with the mapped-memory budget: growth is
// reserved up front so a refused reservation reads as a failed resize, and
// shrinkage is returned to the budget afterwards.
func (r *registry) resizeLocked(seg *segment.Segment, size, align int) bool {
	delta := seg.MappedSizeFor(size) - seg.MappedSize()

	if delta > 0 && !r.res.TryAcquire(int64(delta)) {
		return false
	}

	if !seg.Resize(size, align) {
		if delta > 0 {
			r.res.Release(int64(delta))
		}
		return false
	}

	if delta < 0 {
		r.res.Release(int64(-delta))
	}

	return true
}

// isManaged reports whether p's base address is a live registry entry.
func (r *registry) isManaged(p []byte) bool {
	if len(p) == 0 {
		return false
	}

	base := sliceBase(p)

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.segments[base]

	return ok
}

func (r *registry) stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s Stats

	for _, seg := range r.segments {
		size := uint64(seg.Size())
		mapped := uint64(seg.MappedSize())

		s.AllocatedBytes += size
		s.MappedBytes += mapped
		s.SegmentCount++

		if seg.HugePages() {
			s.HugeAllocated += size
			s.HugeMapped += mapped
			s.HugeSegments++
		} else {
			s.DefaultAllocated += size
			s.DefaultMapped += mapped
			s.DefaultSegments++
		}
	}

	s.MissedAllocations = r.missedAllocs
	s.MissedMegabytes = float64(r.missedMB) + float64(r.missedBytes)/(1024*1024)
	s.FailedResizes = r.failedResizes

	if s.MappedBytes == 0 {
		s.EfficiencyPercent = 100
	} else {
		s.EfficiencyPercent = s.AllocatedBytes * 100 / s.MappedBytes
	}

	return s
}

// closeAll unmaps every live segment.
func (r *registry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for base, seg := range r.segments {
		r.removeLocked(base, seg)
	}
}

func (r *registry) insertLocked(seg *segment.Segment) {
	if r.segments == nil {
		r.segments = make(map[uintptr]*segment.Segment)
	}

	if _, ok := r.segments[seg.Base()]; ok {
		panic(panicDuplicateBase)
	}

	r.segments[seg.Base()] = seg
}

func (r *registry) removeLocked(base uintptr, seg *segment.Segment) {
	delete(r.segments, base)

	mapped := seg.MappedSize()
	if err := seg.Close(); err != nil {
		panic(panicUnmapFailed)
	}
	r.res.Release(int64(mapped))
}

// addMissedLocked records bytes that wanted huge page backing but landed on
// default pages. Whole MiB roll into missedMB, the remainder stays in
// missedBytes.
func (r *registry) addMissedLocked(bytes int) {
	r.missedAllocs++
	r.missedBytes += uint64(bytes)

	if r.missedBytes > 1<<20 {
		mb := r.missedBytes >> 20
		r.missedBytes -= mb << 20
		r.missedMB += mb
	}
}

func sliceBase(p []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(p)))
}
