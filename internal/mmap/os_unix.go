//go:build unix && !linux

package mmap

import (
	"golang.org/x/sys/unix"
)

func osMapAnon(size int, huge bool) ([]byte, error) {
	if huge {
		return nil, ErrHugePagesUnsupported
	}

	prot := unix.PROT_READ | unix.PROT_WRITE
	flags := unix.MAP_ANON | unix.MAP_PRIVATE

	return unix.Mmap(-1, 0, size, prot, flags)
}

func osRemap(_ []byte, _ int) ([]byte, error) {
	return nil, ErrRemapUnsupported
}

func osUnmap(data []byte) error {
	return unix.Munmap(data)
}
