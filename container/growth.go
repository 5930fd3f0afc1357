// Package container implements the growable, arena-backed collection
// types built directly on top of package reserver: Array, Deque and QPool.
package container

// GrowthPolicy is a compile-time marker selecting a container's expansion
// multiplier. Different policies are different Go types, so an Array[T,
// Double] and an Array[T, Triple] cannot be assigned to one another even
// though both wrap the same element type.
type GrowthPolicy interface {
	multiplier() int
}

// Double doubles capacity on every growth (new = max(old, 1) * 2).
type Double struct{}

func (Double) multiplier() int { return 2 }

// Triple grows capacity by 3x on every growth. Present for containers that
// need to amortize reallocation more aggressively at the cost of headroom.
type Triple struct{}

func (Triple) multiplier() int { return 3 }

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
