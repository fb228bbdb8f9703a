package mediandeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertSingleVertexMedianEqualsItsDegree(t *testing.T) {
	x := New()
	x.Insert("a")
	assert.Equal(t, 1.0, x.Median())
}

func TestInsertTwoVerticesMedianIsAverage(t *testing.T) {
	x := New()
	x.Insert("a")
	x.Insert("b")
	assert.Equal(t, 1.0, x.Median())
}

func TestIncrementMovesMedian(t *testing.T) {
	x := New()
	x.Insert("a")
	x.Insert("b")
	x.Increment("a")
	// degrees: a=2, b=1 -> median 1.5
	assert.Equal(t, 1.5, x.Median())
}

func TestDecrementToZeroErasesVertex(t *testing.T) {
	x := New()
	x.Insert("a")
	x.Increment("a")
	erased := x.Decrement("a")
	assert.False(t, erased)
	assert.Equal(t, 1.0, x.Median())

	erased = x.Decrement("a")
	assert.True(t, erased)
	assert.False(t, x.Contains("a"))
}

func TestMedianOfOddCountIsMiddleElement(t *testing.T) {
	x := New()
	names := []string{"a", "b", "c"}
	for _, n := range names {
		x.Insert(n)
	}
	// a=1,b=1,c=1, bump a to 3: degrees sorted {1,1,3} -> median 1
	x.Increment("a")
	x.Increment("a")
	assert.Equal(t, 1.0, x.Median())
}

func TestLargeRunOfIncrementsKeepsHeapsBalanced(t *testing.T) {
	x := New()
	for i := 0; i < 50; i++ {
		x.Insert(string(rune('a' + i%26)) + string(rune('0'+i/26)))
	}
	for i := 0; i < 200; i++ {
		name := string(rune('a'+i%26)) + string(rune('0'+(i%50)/26))
		if x.Contains(name) {
			x.Increment(name)
		}
	}
	// No panics, and the two heaps must never differ in size by more than 1.
	diff := len(x.heaps[lowerSide]) - len(x.heaps[greaterSide])
	assert.LessOrEqual(t, diff, 1)
	assert.GreaterOrEqual(t, diff, -1)
}

func TestEraseAbsentVertexPanics(t *testing.T) {
	x := New()
	assert.Panics(t, func() { x.Erase("ghost") })
}

func TestInsertDuplicatePanics(t *testing.T) {
	x := New()
	x.Insert("a")
	assert.Panics(t, func() { x.Insert("a") })
}

func TestMedianOfEmptyIndexPanics(t *testing.T) {
	x := New()
	assert.Panics(t, func() { x.Median() })
}

func TestDegreeReflectsIncrementsAndDecrements(t *testing.T) {
	x := New()
	x.Insert("a")
	x.Increment("a")
	x.Increment("a")
	d, ok := x.Degree("a")
	require.True(t, ok)
	assert.Equal(t, uint32(3), d)

	x.Decrement("a")
	d, ok = x.Degree("a")
	require.True(t, ok)
	assert.Equal(t, uint32(2), d)
}

func TestForEachVisitsEveryTrackedVertex(t *testing.T) {
	x := New()
	x.Insert("a")
	x.Insert("b")
	x.Insert("c")

	seen := make(map[string]uint32)
	x.ForEach(func(name string, degree uint32) {
		seen[name] = degree
	})
	assert.Len(t, seen, 3)
	assert.Equal(t, uint32(1), seen["a"])
}
