package hcontainer

import "qentem/reserver"

// HArray is the string-keyed, insertion-ordered HashTable specialization
// that the rest of this module's object-shaped data is built on.
type HArray[V any] struct {
	*HashTable[string, V]
}

// NewHArray returns an empty HArray drawing storage from h.
func NewHArray[V any](h *reserver.Handle) *HArray[V] {
	return &HArray[V]{HashTable: New[string, V](h, StringHasher{})}
}
