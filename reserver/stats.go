package reserver

import (
	"sort"

	"github.com/cznic/sortutil"
)

// CoreStats is a read-only snapshot of one ReserverCore. It exists for
// tests and diagnostics; nothing in the allocator's hot path constructs one.
type CoreStats struct {
	ActiveBlocks    int
	ExhaustedBlocks int
	TotalAvailable  uintptr
	TotalCapacity   uintptr
	// AvailableByBlock holds each block's available-byte count, sorted
	// ascending, so two snapshots of an unchanged allocator compare equal
	// regardless of which order active/exhausted blocks happen to be
	// stored in.
	AvailableByBlock []uintptr
}

// Stats is the aggregate snapshot across every core of a Reserver.
type Stats struct {
	PerCore []CoreStats
}

// TotalAvailable sums CoreStats.TotalAvailable across every core.
func (s Stats) TotalAvailable() uintptr {
	var total uintptr
	for _, c := range s.PerCore {
		total += c.TotalAvailable
	}
	return total
}

// Stats snapshots every core the Reserver manages.
func (r *Reserver) Stats() Stats {
	out := Stats{PerCore: make([]CoreStats, len(r.cores))}
	for i, c := range r.cores {
		avail := make(sortutil.Int64Slice, 0, len(c.active)+len(c.exhausted))
		var totalAvail, totalCap uintptr
		for _, b := range c.active {
			avail = append(avail, int64(b.available))
			totalAvail += b.available
			totalCap += b.capacity
		}
		for _, b := range c.exhausted {
			avail = append(avail, int64(b.available))
			totalAvail += b.available
			totalCap += b.capacity
		}
		sort.Sort(avail)

		byBlock := make([]uintptr, len(avail))
		for j, a := range avail {
			byBlock[j] = uintptr(a)
		}

		out.PerCore[i] = CoreStats{
			ActiveBlocks:     len(c.active),
			ExhaustedBlocks:  len(c.exhausted),
			TotalAvailable:   totalAvail,
			TotalCapacity:    totalCap,
			AvailableByBlock: byBlock,
		}
	}
	return out
}
