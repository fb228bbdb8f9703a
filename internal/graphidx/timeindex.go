// Package graphidx provides the time-ordered edge index WindowedGraph uses
// to expire edges in O(log n + k) when the window advances, instead of
// scanning every live edge on every event.
//
// The specification calls for "a balanced ordered multimap or an equivalent
// ordered structure"; the standard library has neither, so this wraps
// github.com/tidwall/btree's generic B-tree, keyed by (timestamp, lower,
// upper) so that distinct edges sharing a timestamp remain distinct items.
package graphidx

import "github.com/tidwall/btree"

// Edge is one canonicalized, timestamped edge as stored in the time index.
// Lower and Upper are already ordered lexically (Lower < Upper).
type Edge struct {
	Timestamp int64
	Lower     string
	Upper     string
}

func less(a, b Edge) bool {
	if a.Timestamp != b.Timestamp {
		return a.Timestamp < b.Timestamp
	}
	if a.Lower != b.Lower {
		return a.Lower < b.Lower
	}
	return a.Upper < b.Upper
}

// TimeIndex is an ordered set of Edge, ascending by (Timestamp, Lower, Upper).
type TimeIndex struct {
	tree *btree.BTreeG[Edge]
}

// New returns an empty TimeIndex.
func New() *TimeIndex {
	return &TimeIndex{tree: btree.NewBTreeG(less)}
}

// Insert adds e to the index. Re-inserting an Edge with the same key
// (timestamp, lower, upper) replaces it, but WindowedGraph never does that —
// a refresh always deletes the old-timestamped entry first.
func (t *TimeIndex) Insert(e Edge) {
	t.tree.Set(e)
}

// Delete removes e from the index. e must match an existing entry exactly,
// including its timestamp; WindowedGraph looks up the old timestamp via its
// neighbors map before calling this.
func (t *TimeIndex) Delete(e Edge) {
	t.tree.Delete(e)
}

// Len returns the number of edges currently indexed.
func (t *TimeIndex) Len() int {
	return t.tree.Len()
}

// DeleteExpired removes every edge with Timestamp <= cutoff and returns them
// in ascending timestamp order, giving WindowedGraph the batch of edges to
// retire from MedianDegreeIndex and its neighbors map.
func (t *TimeIndex) DeleteExpired(cutoff int64) []Edge {
	var expired []Edge
	for {
		e, ok := t.tree.Min()
		if !ok || e.Timestamp > cutoff {
			return expired
		}
		t.tree.Delete(e)
		expired = append(expired, e)
	}
}
