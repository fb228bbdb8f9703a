package graphidx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeleteExpiredReturnsOnlyEdgesAtOrBeforeCutoffInAscendingOrder(t *testing.T) {
	idx := New()
	idx.Insert(Edge{Timestamp: 10, Lower: "A", Upper: "B"})
	idx.Insert(Edge{Timestamp: 20, Lower: "C", Upper: "D"})
	idx.Insert(Edge{Timestamp: 30, Lower: "E", Upper: "F"})

	expired := idx.DeleteExpired(20)

	assert.Len(t, expired, 2)
	assert.Equal(t, int64(10), expired[0].Timestamp)
	assert.Equal(t, int64(20), expired[1].Timestamp)
	assert.Equal(t, 1, idx.Len())
}

func TestDeleteRemovesAnExactEdge(t *testing.T) {
	idx := New()
	e := Edge{Timestamp: 10, Lower: "A", Upper: "B"}
	idx.Insert(e)
	idx.Delete(e)

	assert.Equal(t, 0, idx.Len())
}

func TestDeleteExpiredIsNoOpWhenNothingQualifies(t *testing.T) {
	idx := New()
	idx.Insert(Edge{Timestamp: 100, Lower: "A", Upper: "B"})

	expired := idx.DeleteExpired(10)

	assert.Empty(t, expired)
	assert.Equal(t, 1, idx.Len())
}
