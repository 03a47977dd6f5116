//go:build linux

package mmap

import (
	"golang.org/x/sys/unix"
)

func osMapAnon(size int, huge bool) ([]byte, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	flags := unix.MAP_ANON | unix.MAP_PRIVATE

	if huge {
		// Without MAP_NORESERVE the kernel reserves huge pages at map time,
		// so an unbacked mapping fails here instead of faulting later.
		flags |= unix.MAP_HUGETLB | unix.MAP_HUGE_2MB
	}

	return unix.Mmap(-1, 0, size, prot, flags)
}

func osRemap(data []byte, newSize int) ([]byte, error) {
	return unix.Mremap(data, newSize, unix.MREMAP_MAYMOVE)
}

func osUnmap(data []byte) error {
	return unix.Munmap(data)
}
