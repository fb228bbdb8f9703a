package windowedgraph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// T converts a same-day HH:MM:SS clock time into the absolute Unix-second
// timestamp the seed scenarios in the specification are expressed against.
func T(hh, mm, ss int) int64 {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute + time.Duration(ss)*time.Second).Unix()
}

func TestSeedScenario(t *testing.T) {
	g := New()

	median := g.Observe("A", "B", T(16, 19, 1))
	assert.Equal(t, 1.00, median)
	assert.Equal(t, 2, g.NumVertices())
	assert.Equal(t, 1, g.NumEdges())

	median = g.Observe("C", "D", T(16, 19, 0))
	assert.Equal(t, 1.00, median)
	assert.Equal(t, 4, g.NumVertices())
	assert.Equal(t, 2, g.NumEdges())

	median = g.Observe("B", "E", T(16, 19, 10))
	assert.Equal(t, 1.00, median)
	assert.Equal(t, 5, g.NumVertices())
	assert.Equal(t, 3, g.NumEdges())

	median = g.Observe("C", "A", T(16, 19, 20))
	assert.Equal(t, 2.00, median)
	assert.Equal(t, 5, g.NumVertices())
	assert.Equal(t, 4, g.NumEdges())

	median = g.Observe("A", "E", T(16, 19, 19))
	assert.Equal(t, 2.00, median)
	assert.Equal(t, 5, g.NumVertices())
	assert.Equal(t, 5, g.NumEdges())

	median = g.Observe("D", "E", T(16, 20, 5))
	assert.Equal(t, 1.00, median)
	assert.Equal(t, 5, g.NumVertices())
	assert.Equal(t, 4, g.NumEdges())

	median = g.Observe("D", "E", T(16, 20, 15))
	assert.Equal(t, 1.50, median)
	assert.Equal(t, 4, g.NumVertices())
	assert.Equal(t, 3, g.NumEdges())

	median = g.Observe("A", "F", T(16, 20, 21))
	assert.Equal(t, 1.00, median)
	assert.Equal(t, 4, g.NumVertices())
	assert.Equal(t, 2, g.NumEdges())
}

func TestSelfLoopIsDroppedWithoutChangingTheGraph(t *testing.T) {
	g := New()
	g.Observe("A", "B", T(0, 0, 1))
	before := g.NumVertices()

	median := g.Observe("A", "A", T(0, 0, 2))

	assert.Equal(t, before, g.NumVertices())
	assert.Equal(t, g.median(), median)
}

func TestCanonicalizationIsCommutative(t *testing.T) {
	g1 := New()
	g1.Observe("A", "B", T(0, 0, 1))
	m1 := g1.Observe("C", "A", T(0, 0, 2))

	g2 := New()
	g2.Observe("B", "A", T(0, 0, 1))
	m2 := g2.Observe("A", "C", T(0, 0, 2))

	assert.Equal(t, m1, m2)
}

func TestRefreshIsIdempotent(t *testing.T) {
	g1 := New()
	m1 := g1.Observe("A", "B", T(0, 0, 1))
	m1 = g1.Observe("A", "B", T(0, 0, 1))

	g2 := New()
	m2 := g2.Observe("A", "B", T(0, 0, 1))

	assert.Equal(t, m1, m2)
	assert.Equal(t, g1.NumVertices(), g2.NumVertices())
	assert.Equal(t, g1.NumEdges(), g2.NumEdges())
}

func TestEventExactlyAtWindowBoundaryIsKept(t *testing.T) {
	g := New()
	g.Observe("A", "B", T(0, 1, 0))
	// Δ = -59, strictly greater than -60: must still be live.
	g.Observe("C", "D", T(0, 1, 59))

	require.Equal(t, 4, g.NumVertices())
	assert.Equal(t, 2, g.NumEdges())
}

func TestEventExactlyAtWindowBoundaryExpires(t *testing.T) {
	g := New()
	g.Observe("A", "B", T(0, 0, 0))
	// Δ = -60 exactly: must expire.
	g.Observe("C", "D", T(0, 1, 0))

	assert.Equal(t, 2, g.NumVertices())
	assert.Equal(t, 1, g.NumEdges())
}

func TestRefreshReplacesTimestampWithoutDuplicatingTheEdge(t *testing.T) {
	g := New()
	g.Observe("A", "B", T(0, 0, 0))
	g.Observe("A", "B", T(0, 0, 30))

	assert.Equal(t, 1, g.NumEdges())
	assert.Equal(t, T(0, 0, 30), g.neighbors["A"]["B"])
	deg, ok := g.vertices.Degree("A")
	require.True(t, ok)
	assert.Equal(t, uint32(1), deg)
}
