// Package eventsink is the thin façade the decoder and CLI layers drive:
// it isolates windowedgraph's core from everything that reads records off
// the wire.
package eventsink

import "github.com/TFMV/rollingmedian/windowedgraph"

// Sink forwards validated events into a WindowedGraph and returns the
// resulting median vertex degree.
type Sink struct {
	graph *windowedgraph.Graph
}

// New returns a Sink backed by a fresh, empty WindowedGraph.
func New() *Sink {
	return &Sink{graph: windowedgraph.New()}
}

// Observe integrates one validated (actor, target, createdTime) triple and
// returns the current median vertex degree.
func (s *Sink) Observe(actor, target string, createdTime int64) float64 {
	return s.graph.Observe(actor, target, createdTime)
}

// Graph exposes the underlying WindowedGraph for components (the metrics
// server, the debug snapshot exporter) that need read-only access beyond
// the one-method Observe contract.
func (s *Sink) Graph() *windowedgraph.Graph {
	return s.graph
}
