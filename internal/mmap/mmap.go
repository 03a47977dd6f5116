package mmap

import (
	"errors"
	"os"
)

// HugePageSize is the huge page granularity used for huge mappings (2 MiB).
const HugePageSize = 2 * 1024 * 1024

var pageSize = os.Getpagesize()

var (
	// ErrHugePagesUnsupported is returned when the platform cannot create
	// huge page mappings.
	ErrHugePagesUnsupported = errors.New("mmap: huge pages not supported on this platform")
	// ErrRemapUnsupported is returned when the platform cannot resize a
	// mapping in place.
	ErrRemapUnsupported = errors.New("mmap: in-place remap not supported on this platform")
)

// DefaultPageSize returns the platform default page size.
func DefaultPageSize() int {
	return pageSize
}

// MapAnon creates an anonymous private read-write mapping of size bytes.
// If huge is true the mapping is backed by 2 MiB huge pages; size must then
// be a multiple of HugePageSize. Freshly mapped memory is zero-filled by the
// kernel.
func MapAnon(size int, huge bool) ([]byte, error) {
	return osMapAnon(size, huge)
}

// Remap resizes the mapping backing data to newSize bytes, relocating it if
// necessary. On success the old slice is invalid and the returned slice must
// be used instead. On failure the old mapping is untouched.
func Remap(data []byte, newSize int) ([]byte, error) {
	return osRemap(data, newSize)
}

// Unmap releases a mapping created by MapAnon or returned by Remap.
func Unmap(data []byte) error {
	return osUnmap(data)
}
