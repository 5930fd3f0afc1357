package container

import (
	"unsafe"

	"qentem/reserver"
)

// QPool is a page-based object pool: items are constructed lazily, at most
// once each, and recycled through a LIFO free list thereafter. It never
// shrinks on its own; Reset releases every page and, if a close function was
// supplied, calls it on exactly the items that were ever constructed (spec
// §4.E: "destructors run only on Reset/drop for exactly constructed items").
type QPool[T any] struct {
	h        *reserver.Handle
	pageSize int
	newFn    func() T
	closeFn  func(*T)

	pages    []*qpoolPage[T]
	nextFree []int // parallel global free-list links, -1 terminates
	freeHead int    // 1-based global slot index; 0 means the free list is empty
}

type qpoolPage[T any] struct {
	region reserver.Region
	items  []T
	used   int // items ever constructed in this page (<= pageSize)
}

// NewQPool returns an empty pool that allocates pageSize items at a time
// from h. newFn constructs a fresh T the first time a slot is handed out;
// it may be nil for types whose zero value is already usable. closeFn, if
// non-nil, is invoked once per constructed item during Reset.
func NewQPool[T any](h *reserver.Handle, pageSize int, newFn func() T, closeFn func(*T)) *QPool[T] {
	if pageSize < 1 {
		pageSize = 64
	}
	return &QPool[T]{h: h, pageSize: pageSize, newFn: newFn, closeFn: closeFn}
}

// Get hands out an item: a recycled one if the free list is non-empty,
// otherwise the next never-used slot (constructing it via newFn), adding a
// new page first if every existing page is full.
func (p *QPool[T]) Get() *T {
	if p.freeHead != 0 {
		g := p.freeHead - 1
		p.freeHead = p.nextFree[g] + 1
		pageIdx, slot := g/p.pageSize, g%p.pageSize
		return &p.pages[pageIdx].items[slot]
	}

	var pg *qpoolPage[T]
	if n := len(p.pages); n == 0 || p.pages[n-1].used == p.pageSize {
		pg = p.addPage()
	} else {
		pg = p.pages[n-1]
	}

	slot := pg.used
	pg.used++
	if p.newFn != nil {
		pg.items[slot] = p.newFn()
	}
	return &pg.items[slot]
}

// Recycle returns item to the free list for reuse by a future Get. item
// must have come from this pool's Get; passing anything else panics.
func (p *QPool[T]) Recycle(item *T) {
	g := p.locate(item)
	p.nextFree[g] = p.freeHead - 1
	p.freeHead = g + 1
}

// ConstructedCount returns the number of items ever constructed across the
// pool's lifetime (recycled reuse does not add to this).
func (p *QPool[T]) ConstructedCount() int {
	total := 0
	for _, pg := range p.pages {
		total += pg.used
	}
	return total
}

// Reset destroys every constructed item (via closeFn, if set) and releases
// all page storage back to the arena. The pool is empty afterwards and may
// be used again; it will allocate fresh pages on the next Get.
func (p *QPool[T]) Reset() {
	for _, pg := range p.pages {
		if p.closeFn != nil {
			for i := 0; i < pg.used; i++ {
				p.closeFn(&pg.items[i])
			}
		}
		p.h.Release(pg.region)
	}
	p.pages = nil
	p.nextFree = nil
	p.freeHead = 0
}

func (p *QPool[T]) addPage() *qpoolPage[T] {
	region, items, err := reserver.ReserveT[T](p.h, p.pageSize)
	if err != nil {
		panic(err)
	}
	pg := &qpoolPage[T]{region: region, items: items}
	p.pages = append(p.pages, pg)
	for i := 0; i < p.pageSize; i++ {
		p.nextFree = append(p.nextFree, -1)
	}
	return pg
}

func (p *QPool[T]) locate(item *T) int {
	ip := uintptr(unsafe.Pointer(item))
	sz := elemSizeOf[T]()
	for pageIdx, pg := range p.pages {
		if pg.used == 0 {
			continue
		}
		start := uintptr(unsafe.Pointer(&pg.items[0]))
		end := start + uintptr(p.pageSize)*sz
		if ip >= start && ip < end {
			return pageIdx*p.pageSize + int((ip-start)/sz)
		}
	}
	panic("container: item does not belong to this QPool")
}
