package hugealloc

import "fmt"

// Stats is a value snapshot of the allocator's huge page activity. It is
// recomputed from the live segments plus the registry counters under the
// registry's critical section, so the per-class sums always add up to the
// totals.
type Stats struct {
	// AllocatedBytes is the sum of requested sizes of all live segments.
	AllocatedBytes uint64
	// MappedBytes is the sum of mapped (page-rounded) sizes.
	MappedBytes uint64
	// SegmentCount is the number of live segments.
	SegmentCount uint64

	// Per page class breakdowns.
	DefaultAllocated uint64
	DefaultMapped    uint64
	DefaultSegments  uint64
	HugeAllocated    uint64
	HugeMapped       uint64
	HugeSegments     uint64

	// MissedAllocations counts allocations that wanted huge pages but landed
	// on default pages. Informational, not an exact physical measurement.
	MissedAllocations uint64
	// MissedMegabytes is the total missed byte volume in MiB.
	MissedMegabytes float64
	// FailedResizes counts in-place resizes that fell back to
	// allocate-copy-unmap.
	FailedResizes uint64

	// EfficiencyPercent is floor(AllocatedBytes*100/MappedBytes), or 100
	// when nothing is mapped. It reflects internal fragmentation from page
	// rounding.
	EfficiencyPercent uint64
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"Stats{segments: %d (huge %d, default %d), alloc: %.2f MB, mapped: %.2f MB, efficiency: %d%%, missed: %d (%.2f MB), failed resizes: %d}",
		s.SegmentCount,
		s.HugeSegments,
		s.DefaultSegments,
		float64(s.AllocatedBytes)/(1024*1024),
		float64(s.MappedBytes)/(1024*1024),
		s.EfficiencyPercent,
		s.MissedAllocations,
		s.MissedMegabytes,
		s.FailedResizes,
	)
}
