// Package mmap provides anonymous memory mappings for off-heap allocation.
//
// # Overview
//
// All memory handed out by hugealloc lives in anonymous, private, read-write
// mappings obtained here. A mapping is requested either with the 2 MiB huge
// page size or with the platform default page size; the caller decides the
// fallback order.
//
// # Platform Support
//
//   - Linux: mmap(2) with MAP_HUGETLB|MAP_HUGE_2MB for huge mappings and
//     mremap(2) with MREMAP_MAYMOVE for in-place resizing.
//   - Other Unix: default page size only. Huge mappings fail with
//     ErrHugePagesUnsupported and resizing fails with ErrRemapUnsupported,
//     so every size change takes the allocate-copy-unmap path one level up.
//
// # Thread Safety
//
// The functions are stateless wrappers around syscalls and are safe for
// concurrent use. A slice must be passed to Unmap exactly once, as the slice
// returned by MapAnon or Remap (golang.org/x/sys/unix tracks mappings by
// their backing array).
package mmap
