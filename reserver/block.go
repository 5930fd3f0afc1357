package reserver

import (
	"math/bits"
	"unsafe"

	"qentem/platform"

	"github.com/cznic/mathutil"
)

// memoryBlock is one contiguous, page-aligned slab managed by a
// ReserverCore, with an external bitfield table tracking free/used chunks
// of size `alignment`.
//
// The bitfield is MSB-first: chunk i lives in table[i/64] at standard bit
// position 63-(i mod 64). table covers every chunk in the block, including
// the chunks notionally consumed by the table itself (permanently 1) — this
// keeps the scan loop uniform.
type memoryBlock struct {
	buf       []byte
	base      uintptr // uintptr(unsafe.Pointer(&buf[0]))
	capacity  uintptr
	alignment uintptr

	chunks      int // total chunks == capacity/alignment
	tableChunks int // chunks permanently reserved for the table region
	dataChunks  int // chunks - tableChunks

	table     []uint64
	available uintptr
	nextIndex int

	// singleUse marks an oversized block whose entire capacity was handed
	// to one caller in ReserverCore.reserve, because the request didn't
	// fit the usual usable-size estimate. Such a block carries no table
	// at all; Data == Base.
	singleUse bool
}

func alignUp(v, align uintptr) uintptr {
	if align <= 1 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

func nextPowerOfTwo(v uintptr) uintptr {
	if v <= 1 {
		return 1
	}
	return uintptr(1) << uint(bits.Len64(uint64(v-1)))
}

// newMemoryBlock reserves a power-of-two >= requested bytes from the
// platform, aligned to at least max(alignment, word*2), and initializes the
// bitfield so the table's own chunks are pre-marked reserved.
func newMemoryBlock(requested, alignment uintptr) (*memoryBlock, error) {
	minAlign := mathutil.MaxUint64(uint64(alignment), uint64(platform.WordBits/8*2))
	alignment = uintptr(minAlign)

	capacity := nextPowerOfTwo(requested)
	if capacity < platform.PageSize() {
		capacity = platform.PageSize()
	}

	buf, err := platformReserve(capacity)
	if err != nil {
		return nil, err
	}

	b := &memoryBlock{
		buf:       buf,
		base:      uintptr(unsafe.Pointer(unsafe.SliceData(buf))),
		capacity:  capacity,
		alignment: alignment,
	}
	b.chunks = int(capacity / alignment)
	b.initTable()
	return b, nil
}

// newSingleUseBlock reserves a block sized exactly to `requested` (already
// rounded to alignment by the caller) that is handed, whole, to one
// allocation. No bitfield is initialized.
func newSingleUseBlock(requested, alignment uintptr) (*memoryBlock, error) {
	buf, err := platformReserve(requested)
	if err != nil {
		return nil, err
	}
	b := &memoryBlock{
		buf:       buf,
		base:      uintptr(unsafe.Pointer(unsafe.SliceData(buf))),
		capacity:  requested,
		alignment: alignment,
		singleUse: true,
	}
	b.chunks = int(requested / alignment)
	b.dataChunks = b.chunks
	b.available = 0
	return b, nil
}

func (b *memoryBlock) initTable() {
	words := (b.chunks + platform.WordBits - 1) / platform.WordBits
	if cap(b.table) >= words {
		b.table = b.table[:words]
		for i := range b.table {
			b.table[i] = 0
		}
	} else {
		b.table = make([]uint64, words)
	}

	tableBytes := uintptr(words) * 8
	b.tableChunks = int(alignUp(tableBytes, b.alignment) / b.alignment)
	if b.tableChunks > b.chunks {
		b.tableChunks = b.chunks
	}
	b.dataChunks = b.chunks - b.tableChunks

	for i := 0; i < b.tableChunks; i++ {
		b.setBit(i)
	}
	b.available = uintptr(b.dataChunks) * b.alignment
	b.nextIndex = b.tableChunks / platform.WordBits
}

// clearTable resets state to the post-construction configuration without
// touching the OS reservation.
func (b *memoryBlock) clearTable() {
	if b.singleUse {
		b.initNormalFromSingleUse()
		return
	}
	b.initTable()
}

// initNormalFromSingleUse converts a returned single-use block into a
// normal, tabled block reusing the same backing buffer.
func (b *memoryBlock) initNormalFromSingleUse() {
	b.singleUse = false
	b.chunks = int(b.capacity / b.alignment)
	b.initTable()
}

func (b *memoryBlock) usableSize() uintptr {
	return uintptr(b.dataChunks) * b.alignment
}

func (b *memoryBlock) isEmpty() bool {
	return b.available == b.usableSize()
}

func (b *memoryBlock) dataPtr() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(b.buf)), uintptr(b.tableChunks)*b.alignment)
}

func (b *memoryBlock) dataBase() uintptr {
	return b.base + uintptr(b.tableChunks)*b.alignment
}

func (b *memoryBlock) end() uintptr {
	return b.base + b.capacity
}

// contains reports whether ptr lies anywhere in the block, table region
// included.
func (b *memoryBlock) contains(ptr unsafe.Pointer) bool {
	p := uintptr(ptr)
	return p >= b.base && p < b.end()
}

// dataContains reports whether ptr lies in the block's data region,
// [Data, End).
func (b *memoryBlock) dataContains(ptr unsafe.Pointer) bool {
	p := uintptr(ptr)
	return p >= b.dataBase() && p < b.end()
}

func (b *memoryBlock) bitIndexOf(ptr unsafe.Pointer) int {
	return int((uintptr(ptr) - b.base) / b.alignment)
}

func (b *memoryBlock) ptrOfBit(bitIndex int) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(b.buf)), uintptr(bitIndex)*b.alignment)
}

func (b *memoryBlock) bit(i int) bool {
	word := b.table[i/platform.WordBits]
	pos := i % platform.WordBits
	return (word>>(platform.WordBits-1-pos))&1 != 0
}

func (b *memoryBlock) setBit(i int) {
	b.table[i/platform.WordBits] |= uint64(1) << (platform.WordBits - 1 - i%platform.WordBits)
}

func (b *memoryBlock) clearBit(i int) {
	b.table[i/platform.WordBits] &^= uint64(1) << (platform.WordBits - 1 - i%platform.WordBits)
}

func (b *memoryBlock) increaseAvailable(n uintptr) { b.available += n }
func (b *memoryBlock) decreaseAvailable(n uintptr) { b.available -= n }

// scanWordZeros returns the number of consecutive zero bits starting at
// local chunk offset pos (0..63) within word, MSB-first, and whether the
// run reached the end of the word (i.e. may continue into the next word).
func scanWordZeros(word uint64, pos int) (runLen int, reachedEnd bool) {
	if pos >= platform.WordBits {
		return 0, true
	}
	maxLen := platform.WordBits - pos
	z := bits.LeadingZeros64(word << uint(pos))
	if z >= maxLen {
		return maxLen, true
	}
	return z, false
}

// tryAccept reports whether a candidate run is usable: if the block's own
// alignment suffices, accept as soon as the run covers chunksNeeded;
// otherwise project the candidate start onto the data pointer, round up to
// customAlignment, and only accept if the run still covers chunksNeeded
// after the shift.
func (b *memoryBlock) tryAccept(runStart, runLen, chunksNeeded int, customAlignment uintptr) (shift int, ok bool) {
	if customAlignment <= b.alignment {
		return 0, runLen >= chunksNeeded
	}
	candidate := b.base + uintptr(runStart)*b.alignment
	aligned := alignUp(candidate, customAlignment)
	shiftChunks := int((aligned - candidate) / b.alignment)
	if runLen-shiftChunks >= chunksNeeded {
		return shiftChunks, true
	}
	return 0, false
}

// scanFirstFit is a first-fit scan for chunksNeeded consecutive free bits
// starting at nextIndex, aligned to customAlignment (which may exceed the
// block's own alignment).
func (b *memoryBlock) scanFirstFit(chunksNeeded int, customAlignment uintptr) (bitIndex, shift int, ok bool) {
	runStart := -1
	runLen := 0
	nWords := len(b.table)

	for w := b.nextIndex; w < nWords; w++ {
		word := b.table[w]
		wordBase := w * platform.WordBits

		if word == ^uint64(0) {
			runStart = -1
			runLen = 0
			continue
		}

		pos := 0
		for pos < platform.WordBits {
			globalChunk := wordBase + pos
			if globalChunk >= b.chunks {
				break
			}

			rl, reachedEnd := scanWordZeros(word, pos)
			if wordBase+pos+rl > b.chunks {
				rl = b.chunks - (wordBase + pos)
				reachedEnd = false
			}

			if runStart == -1 {
				runStart = globalChunk
			}
			runLen += rl

			if shift, ok := b.tryAccept(runStart, runLen, chunksNeeded, customAlignment); ok {
				return runStart, shift, true
			}

			if !reachedEnd {
				pos += rl + 1
				runStart = -1
				runLen = 0
				continue
			}
			pos += rl
			break
		}
	}
	return 0, 0, false
}

// reserveRegion sets bits [bitIndex, bitIndex+chunks) and returns the
// corresponding Region.
func (b *memoryBlock) reserveRegion(bitIndex, chunks int) Region {
	for i := bitIndex; i < bitIndex+chunks; i++ {
		b.setBit(i)
	}
	ptr := b.ptrOfBit(bitIndex)
	return regionFromPtr(ptr, uintptr(chunks)*b.alignment)
}

// releaseRegion clears the bit range covering ptr for `chunks` chunks, and
// back-moves nextIndex if the freed region sits before the current hint.
func (b *memoryBlock) releaseRegion(ptr unsafe.Pointer, chunks int) {
	bitIndex := b.bitIndexOf(ptr)
	for i := bitIndex; i < bitIndex+chunks; i++ {
		b.clearBit(i)
	}
	w := bitIndex / platform.WordBits
	if w < b.nextIndex {
		b.nextIndex = w
	}
}

// reserveAt verifies `chunks` consecutive zero bits start at ptr's bit index
// and sets them if so, without any alignment adjustment. Used only by
// in-place expand.
func (b *memoryBlock) reserveAt(ptr unsafe.Pointer, chunks int) bool {
	bitIndex := b.bitIndexOf(ptr)
	if bitIndex+chunks > b.chunks {
		return false
	}
	for i := bitIndex; i < bitIndex+chunks; i++ {
		if b.bit(i) {
			return false
		}
	}
	for i := bitIndex; i < bitIndex+chunks; i++ {
		b.setBit(i)
	}
	return true
}

func (b *memoryBlock) release() error {
	return platformRelease(b.buf)
}
