package hugealloc

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when operating on a closed allocator.
	ErrClosed = errors.New("hugealloc: allocator is closed")
	// ErrMappingFailed is returned when both the huge page and the default
	// page mapping attempts fail. The mmap error of the default attempt can
	// be accessed via errors.Unwrap.
	ErrMappingFailed = errors.New("hugealloc: failed to map segment")
	// ErrBudgetExceeded is returned when a mapping would exceed the
	// configured mapped-memory budget.
	ErrBudgetExceeded = errors.New("hugealloc: mapped memory budget exceeded")
)

// ErrInvalidLayout indicates a non-positive size or an alignment that is not
// a power of two.
type ErrInvalidLayout struct {
	Size  int
	Align int
}

func (e *ErrInvalidLayout) Error() string {
	return fmt.Sprintf("hugealloc: invalid layout: size %d, align %d", e.Size, e.Align)
}

// Fatal diagnostics are fixed strings so the failure path cannot allocate or
// re-enter the allocator.
const (
	panicDuplicateBase = "hugealloc: registry insert: base address already present"
	panicUnmapFailed   = "hugealloc: munmap failed"
)
