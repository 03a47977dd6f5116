package hugealloc

// SystemAllocator is the fallback for requests below the threshold and for
// registry bookkeeping-adjacent allocations. Implementations must return
// slices whose base address is stable for the lifetime of the allocation.
type SystemAllocator interface {
	// Alloc returns a slice of exactly size bytes. Contents are undefined.
	Alloc(size int) ([]byte, error)
	// AllocZeroed returns a zero-filled slice of exactly size bytes, using
	// the allocator's own zeroing routine.
	AllocZeroed(size int) ([]byte, error)
	// Dealloc releases a slice previously returned by this allocator.
	Dealloc(p []byte)
	// Realloc resizes p to newSize bytes, preserving min(len(p), newSize)
	// bytes of payload. The returned slice may or may not share p's base.
	Realloc(p []byte, newSize int) ([]byte, error)
}

// HeapAllocator is the default SystemAllocator, backed by the Go heap.
type HeapAllocator struct{}

// Alloc implements SystemAllocator.
func (HeapAllocator) Alloc(size int) ([]byte, error) {
	return make([]byte, size), nil
}

// AllocZeroed implements SystemAllocator. The Go heap zero-fills every
// allocation, so this is the same as Alloc.
func (HeapAllocator) AllocZeroed(size int) ([]byte, error) {
	return make([]byte, size), nil
}

// Dealloc implements SystemAllocator. Heap slices are garbage collected.
func (HeapAllocator) Dealloc(_ []byte) {}

// Realloc implements SystemAllocator.
func (HeapAllocator) Realloc(p []byte, newSize int) ([]byte, error) {
	if newSize <= cap(p) {
		return p[:newSize], nil
	}

	data := make([]byte, newSize)
	copy(data, p)

	return data, nil
}
