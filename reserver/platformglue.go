package reserver

import (
	"unsafe"

	"qentem/platform"
)

// platformReserve wraps platform.Reserve, viewing the returned memory as a
// []byte of exactly n bytes so the rest of the package never touches a raw
// unsafe.Pointer directly.
func platformReserve(n uintptr) ([]byte, error) {
	p, err := platform.Reserve(n)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(p), int(n)), nil
}

func platformRelease(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	return platform.Release(unsafe.Pointer(unsafe.SliceData(buf)), uintptr(len(buf)))
}
