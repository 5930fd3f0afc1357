package hcontainer

import (
	"unsafe"

	"qentem/reserver"
)

// ExpansionMultiplier is the growth factor applied to capacity once the
// items array is full (live plus tombstoned items == capacity); the result
// is rounded up to the next power of two.
const ExpansionMultiplier = 2

type entry[K comparable, V any] struct {
	hash  uint64 // 0 marks an empty/tombstoned slot
	next  int32  // index into items, -1 terminates the chain
	key   K
	value V
}

// HashTable is an open-chaining hash table with a power-of-two bucket
// index, a load factor of at most 1.0 (it grows the moment live plus
// tombstoned items would exceed capacity), and stable item positions
// across Remove — removed
// slots are tombstoned in place, not swapped, so iteration order (and
// HArray/HList's externally-visible ordering) only changes on an explicit
// Compress or a growth-triggered rehash.
//
// The index (bucket heads) and items (entry array) live in one combined
// reservation drawn from a reserver.Handle: index occupies the region's
// first len(index)*sizeof(int32) bytes, items the remainder. Both halves
// are always resized together, so there is never a mismatched pair of
// regions to track.
type HashTable[K comparable, V any] struct {
	h      *reserver.Handle
	hasher Hasher[K]

	region reserver.Region
	index  []int32 // bucket head, -1 = empty; len is always a power of two
	items  []entry[K, V]

	itemsLen int // live+tombstoned prefix of items in use
	count    int
	removed  int
}

// New returns an empty HashTable using hasher to hash keys of type K,
// drawing storage from h.
func New[K comparable, V any](h *reserver.Handle, hasher Hasher[K]) *HashTable[K, V] {
	return &HashTable[K, V]{h: h, hasher: hasher}
}

// Len returns the number of live (non-removed) entries.
func (t *HashTable[K, V]) Len() int { return t.count }

func (t *HashTable[K, V]) bucketOf(hash uint64) int {
	return int(hash & uint64(len(t.index)-1))
}

// Get looks up key, reporting whether it is present.
func (t *HashTable[K, V]) Get(key K) (V, bool) {
	var zero V
	if len(t.index) == 0 {
		return zero, false
	}
	hash := t.hasher.Hash(key)
	i := t.index[t.bucketOf(hash)]
	for i != -1 {
		e := &t.items[i]
		if e.hash == hash && e.key == key {
			return e.value, true
		}
		i = e.next
	}
	return zero, false
}

// Has reports whether key is present.
func (t *HashTable[K, V]) Has(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// Set inserts or updates key's value, growing the table first if doing so
// would push the load factor past 1.0 or the items array is full.
func (t *HashTable[K, V]) Set(key K, value V) {
	hash := t.hasher.Hash(key)
	if len(t.index) > 0 {
		i := t.index[t.bucketOf(hash)]
		for i != -1 {
			e := &t.items[i]
			if e.hash == hash && e.key == key {
				e.value = value
				return
			}
			i = e.next
		}
	}

	if t.itemsLen == len(t.index) {
		t.growTo(nextPow2(max(len(t.index)*ExpansionMultiplier, 1)))
	}

	bucket := t.bucketOf(hash)
	idx := int32(t.itemsLen)
	t.items[idx] = entry[K, V]{hash: hash, next: t.index[bucket], key: key, value: value}
	t.index[bucket] = idx
	t.itemsLen++
	t.count++
}

// Remove deletes key if present, tombstoning its slot in place. The item's
// physical position in the backing array is left untouched — only Compress
// or a growth rehash ever reclaims it.
func (t *HashTable[K, V]) Remove(key K) bool {
	if len(t.index) == 0 {
		return false
	}
	hash := t.hasher.Hash(key)
	bucket := t.bucketOf(hash)
	prev := int32(-1)
	i := t.index[bucket]
	for i != -1 {
		e := &t.items[i]
		if e.hash == hash && e.key == key {
			if prev == -1 {
				t.index[bucket] = e.next
			} else {
				t.items[prev].next = e.next
			}
			var zeroK K
			var zeroV V
			e.hash, e.key, e.value, e.next = 0, zeroK, zeroV, -1
			t.count--
			t.removed++
			return true
		}
		prev = i
		i = e.next
	}
	return false
}

// Rename changes a live entry's key from oldKey to newKey without moving
// its position in the backing items array — so iteration order (and any
// externally held index into it) survives a rename, only the bucket chain
// it hangs off changes. Fails if oldKey is absent or newKey already exists.
func (t *HashTable[K, V]) Rename(oldKey, newKey K) bool {
	if len(t.index) == 0 || t.Has(newKey) {
		return false
	}
	oldHash := t.hasher.Hash(oldKey)
	bucket := t.bucketOf(oldHash)
	prev := int32(-1)
	i := t.index[bucket]
	for i != -1 {
		e := &t.items[i]
		if e.hash == oldHash && e.key == oldKey {
			if prev == -1 {
				t.index[bucket] = e.next
			} else {
				t.items[prev].next = e.next
			}
			newHash := t.hasher.Hash(newKey)
			e.hash = newHash
			e.key = newKey
			newBucket := t.bucketOf(newHash)
			e.next = t.index[newBucket]
			t.index[newBucket] = i
			return true
		}
		prev = i
		i = e.next
	}
	return false
}

// ForEach visits live entries in items-array order (insertion order, modulo
// any Compress/rehash), stopping early if fn returns false.
func (t *HashTable[K, V]) ForEach(fn func(key K, value V) bool) {
	for i := 0; i < t.itemsLen; i++ {
		e := &t.items[i]
		if e.hash == 0 {
			continue
		}
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Compress reclaims every tombstoned slot by rehashing all live entries
// into a fresh backing array of the same capacity, restoring items-array
// density to 1:1 with Len().
func (t *HashTable[K, V]) Compress() {
	if t.removed == 0 || len(t.index) == 0 {
		return
	}
	t.growTo(len(t.index))
}

// growTo reserves one combined region sized for newCap index slots plus
// newCap items slots, rehashes every live entry into it (tombstones are
// dropped along the way), and releases the old region.
func (t *HashTable[K, V]) growTo(newCap int) {
	var zeroIdx int32
	var zeroItem entry[K, V]
	indexBytes := uintptr(newCap) * unsafe.Sizeof(zeroIdx)
	itemsOffset := alignUp(indexBytes, unsafe.Alignof(zeroItem))
	itemsBytes := uintptr(newCap) * unsafe.Sizeof(zeroItem)

	region, err := t.h.Reserve(itemsOffset + itemsBytes)
	if err != nil {
		panic(err)
	}
	newIndex := reserver.RegionAs[int32](region.Slice(0, indexBytes))
	newItems := reserver.RegionAs[entry[K, V]](region.Slice(itemsOffset, itemsBytes))
	for i := range newIndex {
		newIndex[i] = -1
	}

	n := 0
	for i := 0; i < t.itemsLen; i++ {
		e := t.items[i]
		if e.hash == 0 {
			continue
		}
		bucket := int(e.hash & uint64(newCap-1))
		e.next = newIndex[bucket]
		newIndex[bucket] = int32(n)
		newItems[n] = e
		n++
	}

	if !t.region.IsNil() {
		t.h.Release(t.region)
	}
	t.region = region
	t.index = newIndex
	t.items = newItems
	t.itemsLen = n
	t.removed = 0
}

func alignUp(v, align uintptr) uintptr {
	return (v + align - 1) &^ (align - 1)
}

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
