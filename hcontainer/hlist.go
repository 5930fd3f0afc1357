package hcontainer

import "qentem/reserver"

// HList is a HashTable[uint64, T] specialized with an auto-incrementing
// identity key, giving callers a stable handle to each stored value
// without having to mint their own keys.
type HList[T any] struct {
	*HashTable[uint64, T]
	nextID uint64
}

// NewHList returns an empty HList drawing storage from h.
func NewHList[T any](h *reserver.Handle) *HList[T] {
	return &HList[T]{HashTable: New[uint64, T](h, Uint64Hasher{})}
}

// Add stores v under a freshly minted identity key and returns that key.
func (l *HList[T]) Add(v T) uint64 {
	id := l.nextID
	l.nextID++
	l.Set(id, v)
	return id
}
