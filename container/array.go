package container

import (
	"unsafe"

	"qentem/reserver"
)

// Array is a contiguous, growable sequence backed by a single reserver
// reservation. G fixes the expansion multiplier at the type level (see
// GrowthPolicy); the zero Array is not usable, use NewArray.
type Array[T any, G GrowthPolicy] struct {
	h      *reserver.Handle
	region reserver.Region
	data   []T
	size   int
}

// NewArray returns an empty Array drawing storage from h.
func NewArray[T any, G GrowthPolicy](h *reserver.Handle) *Array[T, G] {
	return &Array[T, G]{h: h}
}

// Len returns the number of live elements.
func (a *Array[T, G]) Len() int { return a.size }

// Cap returns the number of elements the current reservation can hold
// without growing.
func (a *Array[T, G]) Cap() int { return len(a.data) }

// At returns a pointer to the element at i. Panics if i is out of range —
// Go has no UB escape hatch, so an out-of-range access fails loudly rather
// than silently.
func (a *Array[T, G]) At(i int) *T {
	if i < 0 || i >= a.size {
		panic("container: Array index out of range")
	}
	return &a.data[i]
}

// Push appends v, growing storage first if the array is at capacity.
func (a *Array[T, G]) Push(v T) {
	if a.size == len(a.data) {
		a.grow()
	}
	a.data[a.size] = v
	a.size++
}

// PopBack removes and returns the last element. ok is false on an empty
// Array.
func (a *Array[T, G]) PopBack() (v T, ok bool) {
	if a.size == 0 {
		return v, false
	}
	a.size--
	v = a.data[a.size]
	var zero T
	a.data[a.size] = zero
	return v, true
}

// Compress shrinks the backing reservation down to exactly Len() elements,
// in place — it never moves live data.
// A Compress that the arena cannot satisfy in place is simply a no-op; the
// Array remains correct, just over-provisioned.
func (a *Array[T, G]) Compress() {
	if a.h == nil || a.size == len(a.data) {
		return
	}
	elemSize := elemSizeOf[T]()
	oldBytes := uintptr(len(a.data)) * elemSize
	newBytes := uintptr(a.size) * elemSize
	if !a.h.Shrink(a.region, oldBytes, newBytes) {
		return
	}
	a.region = a.region.WithLen(newBytes)
	a.data = a.data[:a.size]
}

// Release returns the Array's storage to the arena. The Array is empty and
// unusable again until pushed to (which reserves fresh storage).
func (a *Array[T, G]) Release() {
	if a.region.IsNil() {
		return
	}
	a.h.Release(a.region)
	a.region = reserver.Region{}
	a.data = nil
	a.size = 0
}

func (a *Array[T, G]) grow() {
	var g G
	mult := g.multiplier()
	newCap := max(len(a.data), 1) * mult
	elemSize := elemSizeOf[T]()
	newBytes := uintptr(newCap) * elemSize

	if !a.region.IsNil() {
		oldBytes := uintptr(len(a.data)) * elemSize
		if grown, ok := a.h.TryExpand(a.region, oldBytes, newBytes); ok {
			a.region = grown
			a.data = reserver.RegionAs[T](a.region)
			return
		}
	}

	newRegion, newData, err := reserver.ReserveT[T](a.h, newCap)
	if err != nil {
		panic(err)
	}
	copy(newData, a.data[:a.size])
	if !a.region.IsNil() {
		a.h.Release(a.region)
	}
	a.region = newRegion
	a.data = newData
}

func elemSizeOf[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}
