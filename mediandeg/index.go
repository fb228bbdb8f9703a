// Package mediandeg maintains the median of a set of named integer degrees
// under insertion, deletion, and single-unit increment/decrement, with O(1)
// median retrieval.
//
// The structure is a classic two-heap median finder — a max-heap of the
// lower half ("lower") and a min-heap of the upper half ("greater") — but
// unlike container/heap it exposes O(log n) mutation of an *arbitrary named*
// element's key, not just the root. That requires a name to be trackable
// back to its current array slot as the heaps shuffle elements around on
// every insert/erase/sift, which is what fmap and bmap are for.
package mediandeg

import "fmt"

type side int

const (
	lowerSide side = iota
	greaterSide
)

// location is where a vertex's degree currently lives: which heap, and at
// what array index within it.
type location struct {
	side side
	idx  int
}

// slotNames is the backward index for one array position: at most one name
// per heap can occupy a given position, since the two heaps are sized
// independently.
type slotNames struct {
	lowerName   string
	greaterName string
}

// Index is the median-degree structure described in the specification:
// two heaps plus the bidirectional name/position maps that let insert,
// erase, increment, and decrement address any tracked vertex directly
// rather than only the heap roots.
type Index struct {
	heaps [2][]uint32
	fmap  map[string]location
	bmap  map[int]slotNames
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		fmap: make(map[string]location),
		bmap: make(map[int]slotNames),
	}
}

func higherPriority(s side, a, b uint32) bool {
	if s == lowerSide {
		return a > b
	}
	return a < b
}

func (x *Index) nameAt(s side, idx int) string {
	slot := x.bmap[idx]
	if s == lowerSide {
		return slot.lowerName
	}
	return slot.greaterName
}

func (x *Index) setNameAt(s side, idx int, name string) {
	slot := x.bmap[idx]
	if s == lowerSide {
		slot.lowerName = name
	} else {
		slot.greaterName = name
	}
	x.bmap[idx] = slot
}

// clearNameAt removes the bookkeeping for one heap's occupant of idx. It
// never touches fmap — callers own the vertex's canonical location entry.
func (x *Index) clearNameAt(s side, idx int) {
	slot, ok := x.bmap[idx]
	if !ok {
		return
	}
	if s == lowerSide {
		slot.lowerName = ""
	} else {
		slot.greaterName = ""
	}
	if slot.lowerName == "" && slot.greaterName == "" {
		delete(x.bmap, idx)
	} else {
		x.bmap[idx] = slot
	}
}

// swapPositions exchanges the degrees at i and j within heap s, and keeps
// fmap/bmap consistent with the new arrangement. This is the only primitive
// that moves an element's array position, per the design note that cross
// references must be updated atomically with every such move.
func (x *Index) swapPositions(s side, i, j int) {
	if i == j {
		return
	}
	h := x.heaps[s]
	h[i], h[j] = h[j], h[i]

	ni, nj := x.nameAt(s, i), x.nameAt(s, j)
	x.setNameAt(s, i, nj)
	x.setNameAt(s, j, ni)
	if ni != "" {
		loc := x.fmap[ni]
		loc.idx = j
		x.fmap[ni] = loc
	}
	if nj != "" {
		loc := x.fmap[nj]
		loc.idx = i
		x.fmap[nj] = loc
	}
}

func (x *Index) siftUp(s side, i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if higherPriority(s, x.heaps[s][i], x.heaps[s][parent]) {
			x.swapPositions(s, i, parent)
			i = parent
		} else {
			return
		}
	}
}

func (x *Index) siftDown(s side, i int) {
	n := len(x.heaps[s])
	for {
		if i >= n {
			return
		}
		left, right := 2*i+1, 2*i+2
		best := i
		if left < n && higherPriority(s, x.heaps[s][left], x.heaps[s][best]) {
			best = left
		}
		if right < n && higherPriority(s, x.heaps[s][right], x.heaps[s][best]) {
			best = right
		}
		if best == i {
			return
		}
		x.swapPositions(s, i, best)
		i = best
	}
}

// extract removes the element at (s, idx) from heap s by swapping it to the
// last slot, popping it, and sifting the element moved into idx down or up
// as its degree requires. It returns the removed degree and name but does
// not delete the removed vertex's fmap entry — the caller either deletes it
// entirely (erase) or re-homes it in the other heap (rotate).
func (x *Index) extract(s side, idx int) (uint32, string) {
	lastIdx := len(x.heaps[s]) - 1
	x.swapPositions(s, idx, lastIdx)
	degree := x.heaps[s][lastIdx]
	name := x.nameAt(s, lastIdx)
	x.heaps[s] = x.heaps[s][:lastIdx]
	x.clearNameAt(s, lastIdx)
	if idx < lastIdx {
		x.siftDown(s, idx)
		x.siftUp(s, idx)
	}
	return degree, name
}

// rotate pops the root of `from` and pushes it onto `to`, the single
// rebalancing primitive used both for size-difference-2 correction and for
// cross-heap order healing after increment/decrement.
func (x *Index) rotate(from, to side) {
	degree, name := x.extract(from, 0)
	idx := len(x.heaps[to])
	x.heaps[to] = append(x.heaps[to], degree)
	x.setNameAt(to, idx, name)
	x.fmap[name] = location{side: to, idx: idx}
	x.siftUp(to, idx)
}

func (x *Index) rebalance() {
	switch len(x.heaps[lowerSide]) - len(x.heaps[greaterSide]) {
	case 2:
		x.rotate(lowerSide, greaterSide)
	case -2:
		x.rotate(greaterSide, lowerSide)
	}
}

// healAfterIncrementLower restores top(lower) <= top(greater) after an
// increment has sifted an element up within lower. When lower is the larger
// heap, one rotation into greater fixes the order and balances the sizes;
// otherwise lower's root is rotated into greater and greater's new root is
// rotated back, which leaves both sizes unchanged.
func (x *Index) healAfterIncrementLower() {
	if len(x.heaps[lowerSide]) == 0 || len(x.heaps[greaterSide]) == 0 {
		return
	}
	if x.heaps[lowerSide][0] <= x.heaps[greaterSide][0] {
		return
	}
	switch len(x.heaps[lowerSide]) - len(x.heaps[greaterSide]) {
	case 0, -1:
		x.rotate(lowerSide, greaterSide)
		x.rotate(greaterSide, lowerSide)
	case 1:
		x.rotate(lowerSide, greaterSide)
	}
}

// healAfterDecrementGreater is the mirror image of healAfterIncrementLower,
// invoked after a decrement has sifted an element up within greater.
func (x *Index) healAfterDecrementGreater() {
	if len(x.heaps[lowerSide]) == 0 || len(x.heaps[greaterSide]) == 0 {
		return
	}
	if x.heaps[lowerSide][0] <= x.heaps[greaterSide][0] {
		return
	}
	switch len(x.heaps[lowerSide]) - len(x.heaps[greaterSide]) {
	case 0, 1:
		x.rotate(greaterSide, lowerSide)
		x.rotate(lowerSide, greaterSide)
	case -1:
		x.rotate(greaterSide, lowerSide)
	}
}

// Insert adds a new vertex with degree 1. name must not already be present;
// violating that precondition is a programming error and panics.
func (x *Index) Insert(name string) {
	if _, exists := x.fmap[name]; exists {
		panic(fmt.Sprintf("mediandeg: insert of already-present vertex %q", name))
	}

	s := greaterSide
	if len(x.heaps[lowerSide]) > 0 && x.heaps[lowerSide][0] > 1 {
		s = lowerSide
	}

	idx := len(x.heaps[s])
	x.heaps[s] = append(x.heaps[s], 1)
	x.setNameAt(s, idx, name)
	x.fmap[name] = location{side: s, idx: idx}
	x.siftUp(s, idx)
	x.rebalance()
}

// Erase removes name regardless of its current degree. name must be
// present; violating that precondition is a programming error and panics.
func (x *Index) Erase(name string) {
	loc, ok := x.fmap[name]
	if !ok {
		panic(fmt.Sprintf("mediandeg: erase of absent vertex %q", name))
	}
	x.extract(loc.side, loc.idx)
	delete(x.fmap, name)
	x.rebalance()
}

// Increment adds 1 to name's degree. name must be present.
func (x *Index) Increment(name string) {
	loc, ok := x.fmap[name]
	if !ok {
		panic(fmt.Sprintf("mediandeg: increment of absent vertex %q", name))
	}
	switch loc.side {
	case lowerSide:
		x.heaps[lowerSide][loc.idx]++
		x.siftUp(lowerSide, loc.idx)
		x.healAfterIncrementLower()
	default:
		x.heaps[greaterSide][loc.idx]++
		x.siftDown(greaterSide, loc.idx)
	}
}

// Decrement subtracts 1 from name's degree, erasing the vertex outright if
// its degree would reach 0. It reports whether the vertex was erased. name
// must be present.
func (x *Index) Decrement(name string) (erased bool) {
	loc, ok := x.fmap[name]
	if !ok {
		panic(fmt.Sprintf("mediandeg: decrement of absent vertex %q", name))
	}
	switch loc.side {
	case lowerSide:
		if x.heaps[lowerSide][loc.idx] == 1 {
			x.extract(lowerSide, loc.idx)
			delete(x.fmap, name)
			x.rebalance()
			return true
		}
		x.heaps[lowerSide][loc.idx]--
		x.siftDown(lowerSide, loc.idx)
		return false
	default:
		if x.heaps[greaterSide][loc.idx] == 1 {
			x.extract(greaterSide, loc.idx)
			delete(x.fmap, name)
			x.rebalance()
			return true
		}
		x.heaps[greaterSide][loc.idx]--
		x.siftUp(greaterSide, loc.idx)
		x.healAfterDecrementGreater()
		return false
	}
}

// Contains reports whether name is currently tracked.
func (x *Index) Contains(name string) bool {
	_, ok := x.fmap[name]
	return ok
}

// Degree returns name's current degree and whether it is tracked at all.
func (x *Index) Degree(name string) (uint32, bool) {
	loc, ok := x.fmap[name]
	if !ok {
		return 0, false
	}
	return x.heaps[loc.side][loc.idx], true
}

// Size returns the number of tracked vertices.
func (x *Index) Size() int {
	return len(x.fmap)
}

// ForEach visits every tracked vertex and its current degree, in no
// particular order. Used by debugging/snapshot tooling; never called from
// the hot Observe path.
func (x *Index) ForEach(visit func(name string, degree uint32)) {
	for name, loc := range x.fmap {
		visit(name, x.heaps[loc.side][loc.idx])
	}
}

// Median returns the median degree across all tracked vertices. The index
// must be non-empty; calling Median on an empty index is a programming
// error and panics, since a correctly driven WindowedGraph never does so.
func (x *Index) Median() float64 {
	if len(x.fmap) == 0 {
		panic("mediandeg: median of empty index")
	}
	switch len(x.heaps[lowerSide]) - len(x.heaps[greaterSide]) {
	case 0:
		return (float64(x.heaps[lowerSide][0]) + float64(x.heaps[greaterSide][0])) / 2
	default:
		if len(x.heaps[lowerSide]) > len(x.heaps[greaterSide]) {
			return float64(x.heaps[lowerSide][0])
		}
		return float64(x.heaps[greaterSide][0])
	}
}
