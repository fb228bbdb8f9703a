// Package windowedgraph owns the set of live edges within a 60-second
// sliding window keyed by event time, and keeps a mediandeg.Index in sync
// with each vertex's current degree as edges are admitted, refreshed, or
// expired.
package windowedgraph

import (
	"github.com/TFMV/rollingmedian/internal/graphidx"
	"github.com/TFMV/rollingmedian/mediandeg"
)

// WindowSeconds is the width of the sliding window: an edge with timestamp
// t_e is live exactly while t_max-WindowSeconds < t_e <= t_max.
const WindowSeconds = 60

// Graph is the windowed multigraph described in the specification. The zero
// value is not usable; construct with New.
type Graph struct {
	vertices  *mediandeg.Index
	edges     *graphidx.TimeIndex
	neighbors map[string]map[string]int64
	tMax      int64
	tMaxSet   bool
}

// New returns an empty Graph with no observed events yet.
func New() *Graph {
	return &Graph{
		vertices:  mediandeg.New(),
		edges:     graphidx.New(),
		neighbors: make(map[string]map[string]int64),
	}
}

// Observe integrates one event into the graph and returns the current
// median vertex degree. u and v must be non-empty; t is an absolute integer
// Unix-second timestamp.
func (g *Graph) Observe(u, v string, t int64) float64 {
	a, b := canonicalize(u, v)
	if a == b {
		return g.median()
	}

	if !g.tMaxSet {
		g.tMaxSet = true
		g.tMax = t
		g.admit(a, b, t)
		return g.median()
	}

	delta := t - g.tMax
	switch {
	case delta > 0:
		g.tMax = t
		g.expireUpTo(g.tMax - WindowSeconds)
		g.admit(a, b, t)
	case delta > -WindowSeconds:
		g.admit(a, b, t)
	default:
		// Event already expired relative to the current window: ignored.
	}

	return g.median()
}

// NumVertices reports how many vertices are currently live. Exposed for
// testing and debugging, mirroring the original implementation's
// num_vertices helper.
func (g *Graph) NumVertices() int {
	return g.vertices.Size()
}

// NumEdges reports how many edges are currently live.
func (g *Graph) NumEdges() int {
	return g.edges.Len()
}

// Vertices visits every live vertex with its current degree. Used by the
// debug snapshot exporter; never called from the hot Observe path.
func (g *Graph) Vertices(visit func(name string, degree uint32)) {
	g.vertices.ForEach(visit)
}

// Edges visits every live edge with its current timestamp. Used by the
// debug snapshot exporter; never called from the hot Observe path.
func (g *Graph) Edges(visit func(lower, upper string, t int64)) {
	for lower, partners := range g.neighbors {
		for upper, t := range partners {
			visit(lower, upper, t)
		}
	}
}

func (g *Graph) median() float64 {
	return g.vertices.Median()
}

func canonicalize(u, v string) (a, b string) {
	if u <= v {
		return u, v
	}
	return v, u
}

// admit records the event (a, b, t) as either a brand-new edge or a refresh
// of an existing one, updating vertices accordingly.
func (g *Graph) admit(a, b string, t int64) {
	partners, ok := g.neighbors[a]
	if ok {
		if oldT, ok := partners[b]; ok {
			g.refresh(a, b, oldT, t)
			return
		}
	} else {
		partners = make(map[string]int64)
		g.neighbors[a] = partners
	}

	aExists := g.vertices.Contains(a)
	bExists := g.vertices.Contains(b)
	switch {
	case aExists && bExists:
		g.vertices.Increment(a)
		g.vertices.Increment(b)
	case aExists:
		g.vertices.Increment(a)
		g.vertices.Insert(b)
	case bExists:
		g.vertices.Insert(a)
		g.vertices.Increment(b)
	default:
		g.vertices.Insert(a)
		g.vertices.Insert(b)
	}

	partners[b] = t
	g.edges.Insert(graphidx.Edge{Timestamp: t, Lower: a, Upper: b})
}

// refresh replaces an existing edge's timestamp without touching vertex
// degrees.
func (g *Graph) refresh(a, b string, oldT, newT int64) {
	if oldT == newT {
		return
	}
	g.edges.Delete(graphidx.Edge{Timestamp: oldT, Lower: a, Upper: b})
	g.neighbors[a][b] = newT
	g.edges.Insert(graphidx.Edge{Timestamp: newT, Lower: a, Upper: b})
}

// expireUpTo retires every live edge with timestamp <= cutoff: it decrements
// both endpoints in the median index (possibly erasing one or both) and
// drops the corresponding neighbors entries.
func (g *Graph) expireUpTo(cutoff int64) {
	expired := g.edges.DeleteExpired(cutoff)
	for _, e := range expired {
		g.vertices.Decrement(e.Lower)
		g.vertices.Decrement(e.Upper)

		if partners, ok := g.neighbors[e.Lower]; ok {
			delete(partners, e.Upper)
			if len(partners) == 0 {
				delete(g.neighbors, e.Lower)
			}
		}
	}
}
