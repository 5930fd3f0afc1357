package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindOneRune(t *testing.T) {
	require.Equal(t, 2, FindOne('A', []rune("AAAAA"), 1, 5))
}

func TestFindOneNotFoundReturnsZero(t *testing.T) {
	require.Equal(t, 0, FindOne('Z', []rune("AAAAA"), 0, 5))
}

func TestFindRune(t *testing.T) {
	content := []rune("ABABABABABAAABABC")
	require.Equal(t, 17, Find([]rune("ABC"), content, 0, 17))
}

func TestFindByte(t *testing.T) {
	content := []byte("ABABABABABAAABABC")
	require.Equal(t, 17, Find([]byte("ABC"), content, 0, 17))
}

func TestFindPastEndReturnsZero(t *testing.T) {
	content := []rune("ABC")
	require.Equal(t, 0, Find([]rune("ABCD"), content, 0, 3))
}

func TestSkipInnerPatternsOneRune(t *testing.T) {
	content := []rune("{{{{{{}}}}}}")
	require.Equal(t, 12, SkipInnerPatternsOne('{', '}', content, 1, 12))
}

func TestSkipInnerPatternsMultiCharToken(t *testing.T) {
	content := []rune("{{.{{..}}.}}")
	got := SkipInnerPatterns([]rune("{{"), []rune("}}"), content, 2, len(content))
	require.Equal(t, len(content), got)
}
