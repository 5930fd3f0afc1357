package container

import "qentem/reserver"

// Deque is a power-of-two ring buffer with O(1) push/pop at both ends.
// G selects the growth multiplier. An absolute index handed out by
// NextAbsoluteIndex remains valid (via GetAbsolute) across PushBack/
// PopFront/PopBack calls and across growth, until the element at that
// index is itself popped — growth only moves storage, it never changes
// which logical slot an absolute index names.
type Deque[T any, G GrowthPolicy] struct {
	h        *reserver.Handle
	region   reserver.Region
	data     []T
	head     int
	size     int
	popCount uint64
}

// NewDeque returns an empty Deque drawing storage from h.
func NewDeque[T any, G GrowthPolicy](h *reserver.Handle) *Deque[T, G] {
	return &Deque[T, G]{h: h}
}

// Len returns the number of live elements.
func (d *Deque[T, G]) Len() int { return d.size }

// Cap returns the current backing capacity, always a power of two (or 0).
func (d *Deque[T, G]) Cap() int { return len(d.data) }

func (d *Deque[T, G]) mask() int { return len(d.data) - 1 }

// PushBack appends v at the logical end.
func (d *Deque[T, G]) PushBack(v T) {
	if d.size == len(d.data) {
		d.grow()
	}
	idx := (d.head + d.size) & d.mask()
	d.data[idx] = v
	d.size++
}

// PushFront prepends v at the logical start.
func (d *Deque[T, G]) PushFront(v T) {
	if d.size == len(d.data) {
		d.grow()
	}
	d.head = (d.head - 1) & d.mask()
	d.data[d.head] = v
	d.size++
}

// PopFront removes and returns the first element. Every pop advances the
// pop counter used to keep absolute indices stable; see NextAbsoluteIndex.
func (d *Deque[T, G]) PopFront() (v T, ok bool) {
	if d.size == 0 {
		return v, false
	}
	v = d.data[d.head]
	var zero T
	d.data[d.head] = zero
	d.head = (d.head + 1) & d.mask()
	d.size--
	d.popCount++
	return v, true
}

// PopBack removes and returns the last element.
func (d *Deque[T, G]) PopBack() (v T, ok bool) {
	if d.size == 0 {
		return v, false
	}
	idx := (d.head + d.size - 1) & d.mask()
	v = d.data[idx]
	var zero T
	d.data[idx] = zero
	d.size--
	return v, true
}

// Get returns a pointer to the i-th live element (0 is the front).
func (d *Deque[T, G]) Get(i int) (*T, bool) {
	if i < 0 || i >= d.size {
		return nil, false
	}
	idx := (d.head + i) & d.mask()
	return &d.data[idx], true
}

// NextAbsoluteIndex returns the absolute index PushBack's next element
// would receive. PopFront and growth leave it unchanged, so callers can
// hold onto it as a stable external reference; each push raises it by one
// and PopBack lowers it by one.
func (d *Deque[T, G]) NextAbsoluteIndex() uint64 {
	return d.popCount + uint64(d.size)
}

// GetAbsolute resolves an absolute index (as returned alongside a prior
// PushBack via NextAbsoluteIndex) back to its live element, if it hasn't
// been popped yet.
func (d *Deque[T, G]) GetAbsolute(abs uint64) (*T, bool) {
	if abs < d.popCount {
		return nil, false
	}
	logical := abs - d.popCount
	if logical > uint64(d.size) {
		return nil, false
	}
	return d.Get(int(logical))
}

func (d *Deque[T, G]) grow() {
	var g G
	mult := g.multiplier()
	newCap := nextPow2(max(len(d.data), 1) * mult)

	region, newData, err := reserver.ReserveT[T](d.h, newCap)
	if err != nil {
		panic(err)
	}
	newData = newData[:newCap]
	for i := 0; i < d.size; i++ {
		newData[i] = d.data[(d.head+i)&d.mask()]
	}
	if !d.region.IsNil() {
		d.h.Release(d.region)
	}
	d.region = region
	d.data = newData
	d.head = 0
}
