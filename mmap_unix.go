//go:build unix

package bsa

import "syscall"

// mmapFile maps f read-only for its full size, returning the mapped slice
// and a closer that unmaps it. Grounded on the mmap call
// calvinalkan-agent-task/pkg/slotcache/open.go and slotcache.go make via
// stdlib syscall.Mmap directly, rather than through a third-party mmap
// wrapper; we request PROT_READ/MAP_SHARED since the archive reader never
// mutates the mapping (the slotcache's PROT_WRITE is not needed here).
func mmapFile(fd int, size int64) ([]byte, func() error, error) {
	if size == 0 {
		return nil, func() error { return nil }, nil
	}

	data, err := syscall.Mmap(fd, 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, nil, newErr(KindInputFailure, "mmap failed", err)
	}

	closer := func() error {
		return syscall.Munmap(data)
	}
	return data, closer, nil
}
