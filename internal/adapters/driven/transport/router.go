// Package transport dispatches port identifiers to the transport that
// handles them.
package transport

import (
	"context"
	"fmt"

	"github.com/custodia-labs/serplot/internal/adapters/driven/transport/replay"
	"github.com/custodia-labs/serplot/internal/adapters/driven/transport/serialport"
	"github.com/custodia-labs/serplot/internal/adapters/driven/transport/synthetic"
	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
)

// Options configures a Router.
type Options struct {
	// Synthetic returns the generator configuration at open time, so that
	// settings edited while the program runs take effect on the next Start.
	// Nil means synthetic defaults.
	Synthetic func() synthetic.Config

	// Replay paces file and stdin replay.
	Replay replay.Config
}

// Router opens transports by identifier and lists the virtual ports.
type Router struct {
	opts Options

	openSerial func(name string, baud domain.Baud) (driven.Transport, error)
	openStdin  func(cfg replay.Config) (driven.Transport, error)
	stdinPiped func() bool
}

var (
	_ driven.TransportOpener = (*Router)(nil)
	_ driven.PortEnumerator  = (*Router)(nil)
)

// NewRouter creates a router.
func NewRouter(opts Options) *Router {
	return &Router{
		opts: opts,
		openSerial: func(name string, baud domain.Baud) (driven.Transport, error) {
			return serialport.Open(name, baud)
		},
		openStdin: func(cfg replay.Config) (driven.Transport, error) {
			return replay.OpenStdin(cfg)
		},
		stdinPiped: replay.StdinIsPiped,
	}
}

// Open dispatches on the port identifier: the synthetic generator, a
// "file:" replay, "-" for stdin, and anything else as a serial device.
func (r *Router) Open(ctx context.Context, settings domain.SerialSettings) (driven.Transport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch domain.KindOf(settings.Port) {
	case domain.PortKindSynthetic:
		cfg := synthetic.Config{}
		if r.opts.Synthetic != nil {
			cfg = r.opts.Synthetic()
		}
		return synthetic.Open(cfg), nil
	case domain.PortKindFile:
		return replay.OpenFile(settings.Port, r.opts.Replay)
	case domain.PortKindStdin:
		return r.openStdin(r.opts.Replay)
	case domain.PortKindSerial:
		return r.openSerial(settings.Port, settings.Baud)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedPort, settings.Port)
	}
}

// ListPorts returns the virtual ports: the generator always, and stdin when
// it is piped.
func (r *Router) ListPorts(ctx context.Context) ([]domain.PortInfo, error) {
	ports, err := synthetic.Enumerator{}.ListPorts(ctx)
	if err != nil {
		return nil, err
	}
	if r.stdinPiped() {
		ports = append(ports, domain.PortInfo{
			ID:    domain.PortStdin,
			Label: "Standard input",
			Kind:  domain.PortKindStdin,
		})
	}
	return ports, nil
}
