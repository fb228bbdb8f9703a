// Package loadgen produces a synthetic stream of payment-network events in
// the same newline-JSON wire format the decode package consumes, for
// benchmarking and manual soak testing of the engine.
//
// It repurposes the teacher's opensimplex noise generator — there used to
// distort node positions — to modulate "burstiness": how often a new event
// reuses a recently-seen actor rather than minting a fresh one, and how far
// apart consecutive timestamps land. google/uuid mints the fresh names.
package loadgen

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Config controls the shape of the generated stream.
type Config struct {
	// VertexPoolSize caps how many distinct actor/target names the
	// generator will mint before it only ever reuses existing ones.
	VertexPoolSize int
	// EventCount is the number of events to emit.
	EventCount int
	// Burstiness in [0,1] biases event selection toward reusing the most
	// recently minted names, producing clustered degree growth. A name draw
	// reuses a pooled name when the noise value, scaled to [0,1), is below
	// Burstiness; 0 never reuses a name until the pool is full, after which
	// names are taken in turn, and 1 almost always reuses.
	Burstiness float64
	// NoiseSeed seeds the opensimplex generator driving the per-event
	// burstiness jitter and inter-event spacing.
	NoiseSeed int64
	// StartTime is the created_time of the first emitted event.
	StartTime time.Time
}

// Generator emits a synthetic event stream. Timestamps and the pattern of
// name reuse follow from the Config (with StartTime set); freshly minted
// names are random UUIDs, so the names differ from run to run.
type Generator struct {
	cfg   Config
	noise opensimplex.Noise
	pool  []string
	t     time.Time
	step  int
}

// New returns a Generator configured by cfg. VertexPoolSize and EventCount
// must be positive; Burstiness is clamped to [0,1].
func New(cfg Config) *Generator {
	if cfg.VertexPoolSize <= 0 {
		panic("loadgen: VertexPoolSize must be positive")
	}
	if cfg.Burstiness < 0 {
		cfg.Burstiness = 0
	}
	if cfg.Burstiness > 1 {
		cfg.Burstiness = 1
	}
	if cfg.StartTime.IsZero() {
		cfg.StartTime = time.Now().UTC()
	}

	return &Generator{
		cfg:   cfg,
		noise: opensimplex.New(cfg.NoiseSeed),
		pool:  make([]string, 0, cfg.VertexPoolSize),
		t:     cfg.StartTime,
	}
}

// record is one synthetic event in the decode package's wire shape.
type record struct {
	Actor       string `json:"actor"`
	Target      string `json:"target"`
	CreatedTime string `json:"created_time"`
}

// WriteTo writes cfg.EventCount newline-delimited JSON records to w.
func (g *Generator) WriteTo(w io.Writer) error {
	for i := 0; i < g.cfg.EventCount; i++ {
		actor, target := g.nextPair()
		rec := record{
			Actor:       actor,
			Target:      target,
			CreatedTime: g.t.Format("2006-01-02T15:04:05Z"),
		}
		if _, err := fmt.Fprintf(w, `{"actor":%q,"target":%q,"created_time":%q}`+"\n",
			rec.Actor, rec.Target, rec.CreatedTime); err != nil {
			return fmt.Errorf("loadgen: writing event %d: %w", i, err)
		}
		g.advance()
	}
	return nil
}

// nextPair picks an (actor, target) pair, biased by burstiness toward
// vertices already in the pool.
func (g *Generator) nextPair() (string, string) {
	return g.nextName(0), g.nextName(1)
}

func (g *Generator) nextName(salt float64) string {
	jitter := g.noise.Eval3(float64(g.step)*0.07+salt*13, salt*29, g.cfg.Burstiness*17)
	reuse := (jitter+1)/2 < g.cfg.Burstiness && len(g.pool) > 0

	if reuse {
		idx := len(g.pool) - 1 - int((jitter+1)/2*float64(len(g.pool)))
		if idx >= len(g.pool) {
			idx = len(g.pool) - 1
		}
		if idx < 0 {
			idx = 0
		}
		return g.pool[idx]
	}

	if len(g.pool) >= g.cfg.VertexPoolSize {
		idx := g.step % len(g.pool)
		return g.pool[idx]
	}

	name := uuid.New().String()
	g.pool = append(g.pool, name)
	return name
}

// advance moves the simulated clock forward by a noise-modulated interval,
// producing irregular but monotonically increasing timestamps.
func (g *Generator) advance() {
	g.step++
	n := g.noise.Eval3(float64(g.step)*0.11, 0, 0)
	deltaSeconds := 1 + int64((n+1)/2*10)
	g.t = g.t.Add(time.Duration(deltaSeconds) * time.Second)
}
