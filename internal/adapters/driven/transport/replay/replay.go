// Package replay streams recorded records back from a file or from standard
// input, as if they were arriving on a serial line.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
)

// Replay defaults.
const (
	DefaultChunkSize = 64
	DefaultInterval  = 10 * time.Millisecond
)

// Config configures pacing.
type Config struct {
	// ChunkSize caps the bytes returned by one Read.
	// Zero means DefaultChunkSize.
	ChunkSize int

	// Interval is the delay between chunks. Zero means DefaultInterval,
	// negative means as fast as the reader allows.
	Interval time.Duration
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	return c
}

// contextReader is implemented by readers that can abandon a blocked read.
type contextReader interface {
	ReadContext(ctx context.Context, p []byte) (int, error)
}

// Transport streams a reader in paced chunks.
type Transport struct {
	name    string
	r       io.Reader
	closer  io.Closer
	limiter *rate.Limiter
	chunk   int

	mu     sync.Mutex
	closed bool
}

var _ driven.Transport = (*Transport)(nil)

// New wraps rc. Close closes rc.
func New(name string, rc io.ReadCloser, cfg Config) *Transport {
	cfg = cfg.withDefaults()

	limit := rate.Inf
	if cfg.Interval > 0 {
		limit = rate.Every(cfg.Interval)
	}
	return &Transport{
		name:    name,
		r:       rc,
		closer:  rc,
		limiter: rate.NewLimiter(limit, 1),
		chunk:   cfg.ChunkSize,
	}
}

// OpenFile opens a replay port. id may carry the "file:" prefix.
func OpenFile(id string, cfg Config) (*Transport, error) {
	path := strings.TrimPrefix(id, domain.PortFilePrefix)
	if path == "" {
		return nil, fmt.Errorf("%w: empty replay path", domain.ErrInvalidInput)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	return New(path, f, cfg), nil
}

// Read returns the next chunk.
// Once the reader is exhausted it returns driven.ErrEndOfStream.
func (t *Transport) Read(ctx context.Context, p []byte) (int, error) {
	if t.isClosed() {
		return 0, driven.ErrTransportClosed
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	var n int
	var err error
	if cr, ok := t.r.(contextReader); ok {
		n, err = cr.ReadContext(ctx, p[:min(len(p), t.chunk)])
	} else {
		n, err = t.r.Read(p[:min(len(p), t.chunk)])
	}
	switch {
	case ctx.Err() != nil:
		return n, ctx.Err()
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF):
		if n > 0 {
			return n, nil
		}
		return 0, driven.ErrEndOfStream
	case t.isClosed():
		return n, driven.ErrTransportClosed
	default:
		return n, fmt.Errorf("read %s: %w", t.name, err)
	}
}

// Close closes the underlying reader. Closing twice is a no-op.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.closer.Close()
}

func (t *Transport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// StdinIsPiped reports whether standard input is redirected rather than a
// terminal.
func StdinIsPiped() bool {
	return !term.IsTerminal(int(os.Stdin.Fd()))
}

// OpenStdin streams standard input. It refuses an interactive terminal,
// since keystrokes would be plotted and the TUI needs the terminal.
// Closing the transport does not close os.Stdin.
func OpenStdin(cfg Config) (*Transport, error) {
	if !StdinIsPiped() {
		return nil, fmt.Errorf("%w: standard input is a terminal", domain.ErrUnsupportedPort)
	}
	return New("stdin", newPump(os.Stdin), cfg), nil
}
