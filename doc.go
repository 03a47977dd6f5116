// Package hugealloc manages large allocations with huge-page-backed
// anonymous memory mappings.
//
// # Overview
//
// Requests at or above a configurable threshold are served from their own
// anonymous mapping, tried first with the 2 MiB huge page size and then with
// the default page size. Everything below the threshold is delegated to a
// fallback system allocator (the Go heap by default). Large buffers backed
// by huge pages put less pressure on the TLB and fault in far fewer pages.
//
// # Usage
//
//	alloc := hugealloc.New(1024 * 1024)
//	defer alloc.Close()
//
//	layout := hugealloc.Layout{Size: 8 * 1024 * 1024, Align: 8}
//	buf, err := alloc.Alloc(layout)
//	if err != nil { ... }
//	defer alloc.Dealloc(buf, layout)
//
//	fmt.Println(alloc.Stats())
//
// Resizing keeps data in place when the kernel allows it and falls back to
// allocate-copy-unmap when it does not:
//
//	buf, err = alloc.Realloc(buf, layout, 16*1024*1024)
//
// # Thread Safety
//
// All methods are safe for concurrent use. The registry of live mappings and
// its aggregate counters share one critical section per operation, so Stats
// snapshots are always consistent with concurrent allocation activity.
// Operating on the same buffer from two goroutines at once (for example a
// concurrent Dealloc and Realloc of one pointer) is a caller bug, exactly as
// it would be with any allocator.
//
// # Platform Support
//
// Huge pages and in-place remapping require Linux. On other Unix platforms
// every segment lands on default pages and every size-changing resize takes
// the copy fallback; the accounting surfaces this as missed allocations and
// failed resizes.
package hugealloc
