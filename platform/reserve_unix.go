//go:build !qentem_fallback && (linux || darwin || freebsd || netbsd || openbsd)

package platform

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

func queryPageSize() uintptr {
	return uintptr(unix.Getpagesize())
}

// Reserve asks the OS for a private, anonymous mapping of at least n bytes,
// page-aligned. It backs reserver.MemoryBlock's OS-level allocation.
func Reserve(n uintptr) (unsafe.Pointer, error) {
	b, err := unix.Mmap(-1, 0, int(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(unsafe.SliceData(b)), nil
}

// Release returns a region previously obtained from Reserve back to the OS.
func Release(p unsafe.Pointer, n uintptr) error {
	b := unsafe.Slice((*byte)(p), n)
	return unix.Munmap(b)
}
