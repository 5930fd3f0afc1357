package reserver

import "unsafe"

// Region is an opaque handle to a live reservation. It carries no ownership
// logic of its own — callers must pair every Region they receive from
// Reserve/TryExpand with exactly one matching Release/Shrink call.
//
// Region intentionally exposes no raw pointer arithmetic to consumers;
// Bytes and RegionAs are the only ways to view the memory it names, matching the
// "indices, not pointers" guidance for containers (see DESIGN.md).
type Region struct {
	ptr unsafe.Pointer
	len uintptr
}

// IsNil reports whether r names no memory (the zero Region, or the result
// of a failed Reserve).
func (r Region) IsNil() bool { return r.ptr == nil }

// Len returns the region's size in bytes.
func (r Region) Len() uintptr { return r.len }

// Bytes views the region as a byte slice.
func (r Region) Bytes() []byte {
	if r.ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(r.ptr), int(r.len))
}

// RegionAs reinterprets a Region as a slice of T. The region must have been
// reserved with a size that is a whole multiple of sizeof(T); this is the
// responsibility of the container calling it (Array[T], Deque[T], ...),
// which always reserves in units of T.
func RegionAs[T any](r Region) []T {
	if r.ptr == nil {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 {
		return make([]T, 0)
	}
	return unsafe.Slice((*T)(r.ptr), int(r.len/size))
}

func regionFromPtr(p unsafe.Pointer, n uintptr) Region {
	return Region{ptr: p, len: n}
}

// WithLen returns a copy of r reinterpreted as n bytes long, same pointer.
// Used by containers after Shrink (which reports success/failure but never
// moves data) to reflect the new logical length.
func (r Region) WithLen(n uintptr) Region {
	return Region{ptr: r.ptr, len: n}
}

// Slice carves out a sub-region [offset, offset+length) of r, for callers
// that reserve one combined block and then split it into differently typed
// views (e.g. an index table followed by an items array). offset and
// length are in bytes and must stay within r's bounds; the caller is
// responsible for any alignment the sub-view needs.
func (r Region) Slice(offset, length uintptr) Region {
	return Region{ptr: unsafe.Add(r.ptr, offset), len: length}
}

// ReserveT reserves room for count values of T from h and returns both the
// raw Region (to later Release/Shrink/TryExpand) and a typed view over it.
func ReserveT[T any](h *Handle, count int) (Region, []T, error) {
	var zero T
	size := unsafe.Sizeof(zero) * uintptr(count)
	r, err := h.Reserve(size)
	if err != nil {
		return Region{}, nil, err
	}
	return r, RegionAs[T](r), nil
}
