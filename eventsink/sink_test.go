package eventsink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObserveReturnsCurrentMedian(t *testing.T) {
	s := New()

	median := s.Observe("A", "B", 1000)
	assert.Equal(t, 1.00, median)

	median = s.Observe("A", "C", 1001)
	assert.Equal(t, 1.00, median)
}

func TestGraphExposesUnderlyingState(t *testing.T) {
	s := New()
	s.Observe("A", "B", 1000)

	assert.Equal(t, 2, s.Graph().NumVertices())
	assert.Equal(t, 1, s.Graph().NumEdges())
}
