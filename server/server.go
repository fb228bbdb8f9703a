// Package server exposes the running engine over HTTP: liveness, Prometheus
// metrics, and a debug Graphviz snapshot of the current window. It owns the
// single eventsink.Sink instance and the goroutine reading its input
// source — the sink itself stays single-threaded per the core's contract,
// so this package serializes access with one mutex at the ingestion
// boundary rather than inside mediandeg or windowedgraph.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TFMV/rollingmedian/decode"
	"github.com/TFMV/rollingmedian/eventsink"
	"github.com/TFMV/rollingmedian/snapshot"
)

// Config holds the runtime settings for Start.
type Config struct {
	Port int
	// Input is the stream of newline-JSON event records to ingest; if
	// nil, the server runs with an empty, never-fed sink (useful for
	// exercising /healthz and /metrics in isolation).
	Input io.Reader
}

// Server serializes access to a single eventsink.Sink across the HTTP
// handlers and the ingestion goroutine.
type Server struct {
	log  *zap.Logger
	mu   sync.Mutex
	sink *eventsink.Sink

	median     prometheus.Gauge
	vertices   prometheus.Gauge
	edges      prometheus.Gauge
	eventsSeen prometheus.Counter
}

// New returns a Server backed by a fresh sink and registered with its own
// Prometheus registry.
func New(log *zap.Logger) (*Server, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	s := &Server{
		log:  log,
		sink: eventsink.New(),
		median: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "rollingmedian_median_degree",
			Help: "Current median vertex degree over the 60s window.",
		}),
		vertices: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "rollingmedian_live_vertices",
			Help: "Number of vertices with at least one live edge.",
		}),
		edges: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "rollingmedian_live_edges",
			Help: "Number of distinct edges in the current window.",
		}),
		eventsSeen: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "rollingmedian_events_ingested_total",
			Help: "Total validated events ingested.",
		}),
	}
	return s, reg
}

// Observe feeds one validated event through the sink and refreshes the
// exported gauges. Safe for concurrent use.
func (s *Server) Observe(actor, target string, createdTime int64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	median := s.sink.Observe(actor, target, createdTime)
	s.eventsSeen.Inc()
	s.median.Set(median)
	s.vertices.Set(float64(s.sink.Graph().NumVertices()))
	s.edges.Set(float64(s.sink.Graph().NumEdges()))
	return median
}

// ingest runs in its own goroutine, decoding cfg.Input and feeding every
// accepted event to the sink until the reader is exhausted or ctx is done.
func (s *Server) ingest(ctx context.Context, r io.Reader) {
	dec := decode.NewDecoder(r)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		event, ok := dec.Next()
		if !ok {
			if err := dec.Err(); err != nil {
				s.log.Error("input stream error", zap.Error(err))
			}
			return
		}
		s.Observe(event.Actor, event.Target, event.CreatedTime)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleDebugDOT(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	bw := bufio.NewWriter(w)
	if err := snapshot.WriteDOT(bw, s.sink.Graph()); err != nil {
		s.log.Error("writing debug snapshot", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	_ = bw.Flush()
}

// Start launches the HTTP server and, if cfg.Input is set, the ingestion
// goroutine, blocking until the server stops or ctx is cancelled.
func (s *Server) Start(ctx context.Context, cfg Config, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/debug/dot", s.handleDebugDOT)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if cfg.Input != nil {
		go s.ingest(ctx, cfg.Input)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	s.log.Info("starting server", zap.Int("port", cfg.Port))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen and serve: %w", err)
	}
	return nil
}
