package segment

import (
	"unsafe"

	"github.com/hupe1980/hugealloc/internal/mmap"
)

// Segment is one anonymous memory mapping plus the layout it was requested
// with. The data slice always covers the full mapped region.
type Segment struct {
	data     []byte
	size     int
	align    int
	pageSize int
}

// Create maps a new segment for the given requested size and alignment.
// A huge page mapping is tried first; on any failure the default page size
// is tried. Create fails only if both attempts fail, returning the error of
// the default-page attempt.
func Create(size, align int) (*Segment, error) {
	if data, err := mmap.MapAnon(mappedSize(size, mmap.HugePageSize), true); err == nil {
		return &Segment{
			data:     data,
			size:     size,
			align:    align,
			pageSize: mmap.HugePageSize,
		}, nil
	}

	pageSize := mmap.DefaultPageSize()

	data, err := mmap.MapAnon(mappedSize(size, pageSize), false)
	if err != nil {
		return nil, err
	}

	return &Segment{
		data:     data,
		size:     size,
		align:    align,
		pageSize: pageSize,
	}, nil
}

// Resize changes the requested layout of the segment, remapping when the
// rounded mapped size differs from the current one. The mapping may move.
// On failure the segment is left completely unchanged and the caller is
// expected to fall back to allocate-copy-unmap.
func (s *Segment) Resize(size, align int) bool {
	newMapped := mappedSize(size, s.pageSize)

	if newMapped != len(s.data) {
		data, err := mmap.Remap(s.data, newMapped)
		if err != nil {
			return false
		}
		s.data = data
	}

	s.size = size
	s.align = align

	return true
}

// Bytes returns the payload slice of the segment (len == requested size).
// The slice is valid until the segment is resized or closed.
func (s *Segment) Bytes() []byte {
	return s.data[:s.size:s.size]
}

// Base returns the base address of the mapping, used as the registry key.
func (s *Segment) Base() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(s.data)))
}

// Size returns the requested size in bytes.
func (s *Segment) Size() int {
	return s.size
}

// Align returns the requested alignment in bytes.
func (s *Segment) Align() int {
	return s.align
}

// MappedSize returns the total mapped size in bytes.
func (s *Segment) MappedSize() int {
	return len(s.data)
}

// MappedSizeFor returns the mapped size a resize to size would use, letting
// the caller reserve budget before committing to the resize.
func (s *Segment) MappedSizeFor(size int) int {
	return mappedSize(size, s.pageSize)
}

// PageSize returns the page size backing the mapping.
func (s *Segment) PageSize() int {
	return s.pageSize
}

// HugePages reports whether the mapping is backed by huge pages.
func (s *Segment) HugePages() bool {
	return s.pageSize == mmap.HugePageSize
}

// Close unmaps the backing region. The caller treats a failure as fatal:
// unmapping a region the process itself mapped cannot fail absent address
// space corruption.
func (s *Segment) Close() error {
	return mmap.Unmap(s.data)
}

// mappedSize rounds size up to a whole number of pages.
func mappedSize(size, pageSize int) int {
	return ((size-1)/pageSize + 1) * pageSize
}
