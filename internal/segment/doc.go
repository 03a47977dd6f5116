// Package segment implements the per-mapping building block of hugealloc.
//
// A Segment owns exactly one anonymous memory mapping. Creation tries the
// 2 MiB huge page size first and falls back to the default page size; the
// page class is fixed for the lifetime of the segment. The mapped size is
// the requested size rounded up to a whole number of pages, so a segment
// always satisfies mappedSize >= size and mappedSize % pageSize == 0.
//
// Segments are not safe for concurrent use; the registry above serializes
// all access.
package segment
