// Package reserver implements a page-aligned, per-core arena allocator:
// memoryBlock, reserverCore, and the Reserver façade that routes requests
// to the calling core's arena.
//
// There is no implicit thread-local cache here. Callers acquire a *Handle
// once (Reserver.Acquire) and pass it through their call graph; Go has no
// portable thread-pinning or sched_getcpu(2) equivalent that would let a
// Handle find its own core implicitly and safely.
package reserver

import (
	"unsafe"

	"qentem/platform"

	"github.com/rs/zerolog"
)

const (
	// DefaultBlockSize is the block size a Reserver uses when none is given
	// (256 KiB).
	DefaultBlockSize = 256 * 1024
	// DefaultAlignment is the chunk alignment a Reserver uses when none is
	// given (2 * sizeof(pointer)).
	DefaultAlignment = 2 * unsafe.Sizeof(uintptr(0))
)

// Reserver owns one ReserverCore per logical CPU (or a single core on
// platforms that expose none).
type Reserver struct {
	blockSize uintptr
	alignment uintptr
	log       *zerolog.Logger
	cores     []*reserverCore
}

// Option configures a Reserver at construction time.
type Option func(*config)

type config struct {
	blockSize uintptr
	alignment uintptr
	coreCount int
	log       *zerolog.Logger
}

// WithBlockSize overrides the default block size. It must be a power of two
// not smaller than the platform page size.
func WithBlockSize(n uintptr) Option {
	return func(c *config) { c.blockSize = n }
}

// WithAlignment overrides the default chunk alignment. It must be a power
// of two; values below 16 bytes (two 64-bit table words, the smallest chunk
// a memoryBlock uses) are raised to 16.
func WithAlignment(n uintptr) Option {
	return func(c *config) { c.alignment = n }
}

// WithCoreCount overrides the number of ReserverCore arenas created. By
// default this is platform.CoreCount().
func WithCoreCount(n int) Option {
	return func(c *config) { c.coreCount = n }
}

// WithLogger attaches a zerolog.Logger for low-frequency structural events
// (block allocation, release to the OS, exhaustion). The default is silent.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.log = &l }
}

// New constructs a Reserver. It validates BlockSize/Alignment are powers of
// two, returning *ErrInvalid otherwise.
func New(opts ...Option) (*Reserver, error) {
	c := config{
		blockSize: DefaultBlockSize,
		alignment: DefaultAlignment,
		coreCount: platform.CoreCount(),
	}
	for _, opt := range opts {
		opt(&c)
	}

	if c.blockSize == 0 || c.blockSize&(c.blockSize-1) != 0 {
		return nil, &ErrInvalid{What: "BlockSize", Arg: c.blockSize}
	}
	if c.blockSize < platform.PageSize() {
		c.blockSize = platform.PageSize()
	}
	if c.alignment == 0 || c.alignment&(c.alignment-1) != 0 {
		return nil, &ErrInvalid{What: "Alignment", Arg: c.alignment}
	}
	if minAlign := uintptr(platform.WordBits / 8 * 2); c.alignment < minAlign {
		c.alignment = minAlign
	}
	if c.coreCount < 1 {
		c.coreCount = 1
	}

	r := &Reserver{
		blockSize: c.blockSize,
		alignment: c.alignment,
		log:       c.log,
		cores:     make([]*reserverCore, c.coreCount),
	}
	for i := range r.cores {
		r.cores[i] = newReserverCore(c.blockSize, c.alignment, c.log)
	}
	return r, nil
}

// Alignment returns the Reserver's chunk alignment.
func (r *Reserver) Alignment() uintptr { return r.alignment }

// CoreCount returns the number of arenas the Reserver manages.
func (r *Reserver) CoreCount() int { return len(r.cores) }

// Handle is an explicit, per-caller binding to one ReserverCore. Acquire it
// once (e.g. when a goroutine/worker starts) and thread it through
// containers built on top of this package; see the package doc comment.
type Handle struct {
	r      *Reserver
	coreID int
}

// Acquire hands out a Handle bound to one core. With no argument it assigns
// a core by round-robin (platform.CurrentCoreID); AcquireCore binds to a
// specific core id explicitly.
func (r *Reserver) Acquire() *Handle {
	return &Handle{r: r, coreID: platform.CurrentCoreID() % len(r.cores)}
}

// AcquireCore hands out a Handle bound to a specific core id.
func (r *Reserver) AcquireCore(id int) *Handle {
	if id < 0 {
		id = 0
	}
	return &Handle{r: r, coreID: id % len(r.cores)}
}

// CoreID reports which core this handle is bound to.
func (h *Handle) CoreID() int { return h.coreID }

func (h *Handle) core() *reserverCore { return h.r.cores[h.coreID] }

// roundUpToAlignment rounds a byte count up to the Reserver's alignment.
func (h *Handle) roundUpToAlignment(n uintptr) uintptr {
	return alignUp(n, h.r.alignment)
}

// Reserve requests at least n bytes from this handle's home core.
func (h *Handle) Reserve(n uintptr) (Region, error) {
	size := h.roundUpToAlignment(n)
	if size == 0 {
		size = h.r.alignment
	}
	return h.core().reserve(size, h.r.alignment)
}

// ReserveAligned requests at least n bytes aligned to customAlignment
// (which may exceed the Reserver's own alignment).
func (h *Handle) ReserveAligned(n, customAlignment uintptr) (Region, error) {
	size := h.roundUpToAlignment(n)
	if size == 0 {
		size = h.r.alignment
	}
	return h.core().reserve(size, customAlignment)
}

// Release returns a region to the allocator. On multi-core Reservers, a
// miss on the home core falls back to scanning sibling cores: the only
// cross-core path, and it assumes the destination core is quiescent or
// externally synchronized.
func (h *Handle) Release(r Region) bool {
	size := h.roundUpToAlignment(r.len)
	ptr := r.ptr
	if h.core().release(ptr, size) {
		return true
	}
	if len(h.r.cores) == 1 {
		return false
	}
	for i, c := range h.r.cores {
		if i == h.coreID {
			continue
		}
		if c.release(ptr, size) {
			return true
		}
	}
	return false
}

// Shrink reduces a live region in place from `from` to `to` bytes,
// releasing the tail without moving data.
func (h *Handle) Shrink(r Region, from, to uintptr) bool {
	from = h.roundUpToAlignment(from)
	to = h.roundUpToAlignment(to)
	if to >= from {
		return to == from
	}
	if h.core().shrink(r.ptr, from, to) {
		return true
	}
	if len(h.r.cores) == 1 {
		return false
	}
	for i, c := range h.r.cores {
		if i == h.coreID {
			continue
		}
		if c.shrink(r.ptr, from, to) {
			return true
		}
	}
	return false
}

// TryExpand attempts to grow a live region in place from `from` to `to`
// bytes. It never relocates: on success the Region's pointer is unchanged
// and only its length grows; on failure the caller must Reserve fresh
// memory and copy.
func (h *Handle) TryExpand(r Region, from, to uintptr) (Region, bool) {
	from = h.roundUpToAlignment(from)
	to = h.roundUpToAlignment(to)
	if to <= from {
		return r, true
	}

	if n := h.core().tryExpand(r.ptr, from, to); n == to {
		return regionFromPtr(r.ptr, to), true
	} else if n == from {
		return r, false
	}

	if len(h.r.cores) > 1 {
		for i, c := range h.r.cores {
			if i == h.coreID {
				continue
			}
			switch c.tryExpand(r.ptr, from, to) {
			case to:
				return regionFromPtr(r.ptr, to), true
			case from:
				return r, false
			}
		}
	}
	return r, false
}

// ResetAll releases every block on every core. It is a process-shutdown/
// test convenience; nothing in the allocator's normal operation calls it.
func (r *Reserver) ResetAll() {
	for _, c := range r.cores {
		c.reset()
	}
}
