// Package platform provides the primitives the rest of the runtime is built
// on: bit scanning over machine words, page-size discovery, core counting,
// and raw memory reservation. Everything above this package (reserver,
// container, hcontainer) is pure Go with no OS dependency of its own.
package platform

import (
	"math/bits"
	"runtime"
	"sync/atomic"
)

// WordBits is the width, in bits, of the machine word used by the bitfield
// tables in reserver.MemoryBlock. Chunk i lives in word i/WordBits at bit
// position WordBits-1-(i mod WordBits), MSB-first.
const WordBits = 64

// FindFirstBit returns the index of the most significant set bit of word,
// i.e. the lowest chunk index with its bit set. It is undefined for word ==
// 0, matching the contract of the underlying bit-scan instruction.
func FindFirstBit(word uint64) uint32 {
	return uint32(bits.LeadingZeros64(word))
}

// FindLastBit returns the index of the least significant set bit of word,
// i.e. the highest chunk index with its bit set. It is undefined for word ==
// 0.
func FindLastBit(word uint64) uint32 {
	return WordBits - 1 - uint32(bits.TrailingZeros64(word))
}

// fallbackPageSize is used when the platform query fails or reports 0.
const fallbackPageSize = 4096

// PageSize returns the platform's virtual memory page size, a power of two.
func PageSize() uintptr {
	p := queryPageSize()
	if p == 0 || p&(p-1) != 0 {
		return fallbackPageSize
	}
	return p
}

// CoreCount returns the number of logical cores the Reserver should keep one
// ReserverCore per, on platforms that expose cores; otherwise a single core.
func CoreCount() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}

// coreRoundRobin backs CurrentCoreID on platforms where Go exposes no
// thread-to-core pinning API (there is no portable sched_getcpu(2) wrapper
// in the standard library or x/sys that works identically across goos).
// reserver.Reserver.Acquire uses this round-robin counter to hand out a
// "home" core id exactly once per handle, which is the only place
// CurrentCoreID is consulted in steady state.
var coreRoundRobin uint64

// CurrentCoreID returns a core id in [0, CoreCount()). Successive calls
// round-robin across the available cores; callers that need a stable
// per-thread id should call it once and cache the result (reserver.Handle
// does this).
func CurrentCoreID() int {
	n := uint64(CoreCount())
	v := atomic.AddUint64(&coreRoundRobin, 1) - 1
	return int(v % n)
}
