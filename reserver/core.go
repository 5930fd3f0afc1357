package reserver

import (
	"unsafe"

	"github.com/cznic/mathutil"
	"github.com/rs/zerolog"
)

// reserverCore is a per-core manager of many memoryBlocks: first-fit scan,
// block rotation between active and exhausted lists, in-place shrink/expand.
// Exactly one goroutine/thread is meant to own a given core at a time; the
// type itself does no locking.
type reserverCore struct {
	blockSize uintptr
	alignment uintptr
	log       *zerolog.Logger

	active    []*memoryBlock
	exhausted []*memoryBlock
}

func newReserverCore(blockSize, alignment uintptr, log *zerolog.Logger) *reserverCore {
	return &reserverCore{blockSize: blockSize, alignment: alignment, log: log}
}

// promoteLeader ensures active[0] is the block with the largest UsableSize.
// A linear scan, not a sort: only position 0 needs to be correct, the rest
// of the slice has no ordering contract.
func (c *reserverCore) promoteLeader() {
	if len(c.active) < 2 {
		return
	}
	best := 0
	for i := 1; i < len(c.active); i++ {
		if c.active[i].usableSize() > c.active[best].usableSize() {
			best = i
		}
	}
	if best != 0 {
		c.active[0], c.active[best] = c.active[best], c.active[0]
	}
}

func (c *reserverCore) removeActive(i int) *memoryBlock {
	b := c.active[i]
	c.active = append(c.active[:i], c.active[i+1:]...)
	return b
}

func (c *reserverCore) removeExhausted(i int) *memoryBlock {
	b := c.exhausted[i]
	c.exhausted = append(c.exhausted[:i], c.exhausted[i+1:]...)
	return b
}

// reattach promotes a (no longer exhausted) block back into active,
// swap-promoting it into the leader slot if it is now the largest.
func (c *reserverCore) reattach(b *memoryBlock) {
	c.active = append(c.active, b)
	c.promoteLeader()
}

// reserve scans active blocks for a first fit, falls back to allocating a
// new block sized to hold the request with room to spare, and finally to a
// single-use block of max(blockSize, size) bytes when the request does not
// fit a fresh block's usable size.
func (c *reserverCore) reserve(size uintptr, customAlignment uintptr) (Region, error) {
	chunks := int(size / c.alignment)
	if customAlignment < c.alignment {
		customAlignment = c.alignment
	}

	for i, b := range c.active {
		if b.available < size {
			continue
		}
		bitIndex, shift, ok := b.scanFirstFit(chunks, customAlignment)
		if !ok {
			continue
		}
		region := b.reserveRegion(bitIndex+shift, chunks)
		b.decreaseAvailable(size)
		if b.available == 0 {
			c.removeActive(i)
			c.exhausted = append(c.exhausted, b)
			c.logEvent("block_exhausted", b)
		}
		return region, nil
	}

	newBlockSize := mathutil.MaxUint64(uint64(c.blockSize), uint64(size))
	usableEstimate := estimateUsable(uintptr(newBlockSize), c.alignment)

	if size < usableEstimate {
		b, err := newMemoryBlock(uintptr(newBlockSize), c.alignment)
		if err != nil {
			return Region{}, err
		}
		c.logEvent("block_allocated", b)
		c.active = append(c.active, b)
		bitIndex, shift, ok := b.scanFirstFit(chunks, customAlignment)
		if !ok {
			// The freshly built block is exactly sized for this request;
			// a miss here means our estimate was off by alignment
			// rounding. Retry once against the real table size.
			bitIndex, shift, ok = b.scanFirstFit(chunks, c.alignment)
		}
		region := b.reserveRegion(bitIndex+shift, chunks)
		b.decreaseAvailable(size)
		if b.available == 0 {
			c.removeActive(len(c.active) - 1)
			c.exhausted = append(c.exhausted, b)
		} else {
			c.promoteLeader()
		}
		return region, nil
	}

	b, err := newSingleUseBlock(uintptr(newBlockSize), c.alignment)
	if err != nil {
		return Region{}, err
	}
	c.logEvent("block_allocated_single_use", b)
	c.exhausted = append(c.exhausted, b)
	return regionFromPtr(unsafe.Pointer(unsafe.SliceData(b.buf)), uintptr(newBlockSize)), nil
}

func estimateUsable(capacity, alignment uintptr) uintptr {
	capacity = nextPowerOfTwo(capacity)
	chunks := capacity / alignment
	words := (int(chunks) + 63) / 64
	tableBytes := uintptr(words) * 8
	tableChunks := alignUp(tableBytes, alignment) / alignment
	if tableChunks > chunks {
		tableChunks = chunks
	}
	return (chunks - tableChunks) * alignment
}

// release locates the block owning ptr among active and exhausted lists and
// frees the region, reattaching an exhausted block to active once it has
// room again.
func (c *reserverCore) release(ptr unsafe.Pointer, size uintptr) bool {
	chunks := int(size / c.alignment)

	for i, b := range c.active {
		if b.dataContains(ptr) {
			b.releaseRegion(ptr, chunks)
			b.increaseAvailable(size)
			if b.isEmpty() && i != 0 {
				c.removeActive(i)
				b.release()
				c.logEvent("block_released", b)
			}
			return true
		}
	}

	for i, b := range c.exhausted {
		if b.singleUse {
			if uintptr(ptr) != b.base {
				continue
			}
			c.removeExhausted(i)
			if b.capacity > c.blockSize || len(c.active)+len(c.exhausted) > 0 {
				b.release()
				c.logEvent("single_use_block_released", b)
			} else {
				b.clearTable()
				c.reattach(b)
			}
			return true
		}
		if b.dataContains(ptr) {
			b.releaseRegion(ptr, chunks)
			b.increaseAvailable(size)
			c.removeExhausted(i)
			c.reattach(b)
			return true
		}
	}

	return false
}

// shrink clears the tail [ptr+to, ptr+from) and grows Available by the
// difference.
func (c *reserverCore) shrink(ptr unsafe.Pointer, from, to uintptr) bool {
	diff := from - to
	if diff == 0 {
		return c.locate(ptr) != nil
	}
	tailChunks := int(diff / c.alignment)
	tailPtr := unsafe.Add(ptr, to)

	for _, b := range c.active {
		if b.dataContains(ptr) {
			b.releaseRegion(tailPtr, tailChunks)
			b.increaseAvailable(diff)
			return true
		}
	}

	for i, b := range c.exhausted {
		if b.singleUse {
			continue
		}
		if b.dataContains(ptr) {
			b.releaseRegion(tailPtr, tailChunks)
			b.increaseAvailable(diff)
			c.removeExhausted(i)
			c.reattach(b)
			return true
		}
	}

	return false
}

// tryExpand grows a region in place against active blocks only; it never
// relocates.
func (c *reserverCore) tryExpand(ptr unsafe.Pointer, from, to uintptr) uintptr {
	diffChunks := int((to - from) / c.alignment)
	tailPtr := unsafe.Add(ptr, from)

	for _, b := range c.active {
		if !b.dataContains(ptr) {
			continue
		}
		if b.reserveAt(tailPtr, diffChunks) {
			b.decreaseAvailable(to - from)
			if b.available == 0 {
				for i, ab := range c.active {
					if ab == b {
						c.removeActive(i)
						break
					}
				}
				c.exhausted = append(c.exhausted, b)
			}
			return to
		}
		return from
	}

	return 0
}

func (c *reserverCore) locate(ptr unsafe.Pointer) *memoryBlock {
	for _, b := range c.active {
		if b.dataContains(ptr) {
			return b
		}
	}
	for _, b := range c.exhausted {
		if b.singleUse {
			if uintptr(ptr) == b.base {
				return b
			}
			continue
		}
		if b.dataContains(ptr) {
			return b
		}
	}
	return nil
}

// reset releases every block owned by the core.
func (c *reserverCore) reset() {
	for _, b := range c.active {
		b.release()
	}
	for _, b := range c.exhausted {
		b.release()
	}
	c.active = nil
	c.exhausted = nil
}

func (c *reserverCore) logEvent(event string, b *memoryBlock) {
	if c.log == nil {
		return
	}
	c.log.Debug().
		Str("event", event).
		Uint64("capacity", uint64(b.capacity)).
		Bool("single_use", b.singleUse).
		Msg("reserver block transition")
}
