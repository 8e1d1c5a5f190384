// Package synthetic provides a built-in signal generator that behaves like a
// serial device printing comma-separated integers.
package synthetic

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
)

// Generator defaults.
const (
	DefaultInterval  = 50 * time.Millisecond
	DefaultChunkSize = 7
	DefaultMin       = -100
	DefaultMax       = 100

	// Label is shown next to the synthetic port in port lists.
	Label = "Synthetic signal generator"
)

// rampStart is the first line of ramp mode.
var rampStart = []int8{0, 50, 100, -50}

// Config configures a generator.
type Config struct {
	// Mode selects the waveform. Empty means ramp.
	Mode domain.SyntheticMode

	// Interval is the delay between lines. Zero means DefaultInterval,
	// negative means unpaced.
	Interval time.Duration

	// ChunkSize caps the bytes returned by one Read.
	// Zero means DefaultChunkSize.
	ChunkSize int

	// Min and Max bound random values. Both zero means DefaultMin..DefaultMax.
	Min, Max int

	// Seed makes random mode reproducible. Zero seeds from the clock.
	Seed uint64
}

func (c Config) withDefaults() Config {
	if c.Mode == "" {
		c.Mode = domain.SyntheticRamp
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Min == 0 && c.Max == 0 {
		c.Min, c.Max = DefaultMin, DefaultMax
	}
	if c.Min > c.Max {
		c.Min, c.Max = c.Max, c.Min
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	return c
}

// ConfigFrom builds a Config from the persisted synthetic settings.
func ConfigFrom(s domain.SyntheticSettings) Config {
	return Config{
		Mode:     s.Mode,
		Interval: time.Duration(s.IntervalMs) * time.Millisecond,
	}
}

// Generator produces one line of text per call.
type Generator struct {
	mode     domain.SyntheticMode
	channels []int8
	min, max int
	rng      *rand.Rand
}

// NewGenerator creates a generator from cfg.
func NewGenerator(cfg Config) *Generator {
	cfg = cfg.withDefaults()
	return &Generator{
		mode:     cfg.Mode,
		channels: append([]int8(nil), rampStart...),
		min:      cfg.Min,
		max:      cfg.Max,
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed>>1|1)),
	}
}

// Next returns the next line without a terminator.
func (g *Generator) Next() string {
	fields := make([]string, len(g.channels))
	switch g.mode {
	case domain.SyntheticRandom:
		for i := range fields {
			fields[i] = strconv.Itoa(g.min + g.rng.IntN(g.max-g.min+1))
		}
	default:
		for i, v := range g.channels {
			fields[i] = strconv.Itoa(int(v))
			// int8 arithmetic wraps from 127 to -128.
			g.channels[i] = v + 1
		}
	}
	return strings.Join(fields, ", ")
}

// Transport serves generated lines through the driven.Transport interface.
type Transport struct {
	gen     *Generator
	limiter *rate.Limiter
	chunk   int

	mu      sync.Mutex
	pending []byte
	closed  bool
}

var _ driven.Transport = (*Transport)(nil)

// Open creates a generator transport.
func Open(cfg Config) *Transport {
	cfg = cfg.withDefaults()

	limit := rate.Inf
	if cfg.Interval > 0 {
		limit = rate.Every(cfg.Interval)
	}
	return &Transport{
		gen:     NewGenerator(cfg),
		limiter: rate.NewLimiter(limit, 1),
		chunk:   cfg.ChunkSize,
	}
}

// Read returns at most ChunkSize bytes of the current line, waiting for
// the next line when the current one has been delivered.
func (t *Transport) Read(ctx context.Context, p []byte) (int, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, driven.ErrTransportClosed
	}
	empty := len(t.pending) == 0
	t.mu.Unlock()

	if empty {
		if err := t.limiter.Wait(ctx); err != nil {
			return 0, err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, driven.ErrTransportClosed
	}
	if len(t.pending) == 0 {
		t.pending = append(t.pending, t.gen.Next()...)
		t.pending = append(t.pending, '\n')
	}

	n := copy(p[:min(len(p), t.chunk)], t.pending)
	t.pending = t.pending[n:]
	return n, nil
}

// Close stops the generator.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.pending = nil
	return nil
}

// Enumerator lists the synthetic port.
type Enumerator struct{}

var _ driven.PortEnumerator = Enumerator{}

// ListPorts always returns the single synthetic port.
func (Enumerator) ListPorts(context.Context) ([]domain.PortInfo, error) {
	return []domain.PortInfo{{
		ID:    domain.PortSynthetic,
		Label: Label,
		Kind:  domain.PortKindSynthetic,
	}}, nil
}
