// Package engine implements the small set of linear-scan pattern-search
// primitives ALE (and, upstream, JSON/Template) build on: FindOne, Find,
// and SkipInnerPatterns. They are generic over the content's element type
// so the same code serves both []rune and []byte content.
package engine

// FindOne returns one past the index of the first occurrence of ch in
// content[offset:end], or 0 if it isn't there — so a non-zero result is
// always "index + 1", letting callers use 0 as a clean not-found sentinel
// without an extra ok bool.
func FindOne[E comparable](ch E, content []E, offset, end int) int {
	for offset < end && content[offset] != ch {
		offset++
	}
	if offset < end {
		return offset + 1
	}
	return 0
}

// Find returns one past the end index of the first occurrence of pattern
// in content[offset:end], or 0 if it isn't there. pattern must be
// non-empty.
func Find[E comparable](pattern, content []E, offset, end int) int {
	patLen := len(pattern)
	if patLen == 0 || offset >= end || offset+patLen > end {
		return 0
	}

	lastIdx := patLen - 1
	last := pattern[lastIdx]
	end -= lastIdx

	for offset < end {
		if content[offset] == pattern[0] && content[offset+lastIdx] == last {
			i := 1
			for i < lastIdx && content[offset+i] == pattern[i] {
				i++
			}
			if i >= lastIdx {
				return offset + patLen
			}
		}
		offset++
	}
	return 0
}

// SkipInnerPatterns returns the index one past the closing suffix that
// balances every nested prefix/suffix pair starting at offset — e.g. for
// "{.{..}.}" it skips the inner "{..}" to land on the outer closer. prefix
// and suffix must be equal length and non-empty.
func SkipInnerPatterns[E comparable](prefix, suffix, content []E, offset, end int) int {
	offset2 := offset
	for {
		offset2 = Find(suffix, content, offset2, end)
		offset = Find(prefix, content, offset, offset2)
		if offset == 0 {
			break
		}
	}
	return offset2
}

// SkipInnerPatternsOne is SkipInnerPatterns specialized for single-element
// prefix/suffix tokens (e.g. '{' / '}'), avoiding the slice allocation a
// one-element pattern would otherwise need.
func SkipInnerPatternsOne[E comparable](prefix, suffix E, content []E, offset, end int) int {
	offset2 := offset
	for {
		offset2 = FindOne(suffix, content, offset2, end)
		offset = FindOne(prefix, content, offset, offset2)
		if offset == 0 {
			break
		}
	}
	return offset2
}
