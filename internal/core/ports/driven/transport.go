package driven

import (
	"context"
	"errors"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

// ErrEndOfStream is returned by finite transports (replay files, stdin)
// once every byte has been delivered.
var ErrEndOfStream = errors.New("end of stream")

// ErrTransportClosed is returned by Read after Close.
var ErrTransportClosed = errors.New("transport closed")

// Transport is a source of raw bytes with no framing guarantee.
type Transport interface {
	// Read fills p with whatever bytes are available.
	// (0, nil) means no data arrived this cycle, for example a read timeout.
	// It must return promptly once ctx is cancelled.
	Read(ctx context.Context, p []byte) (int, error)

	// Close releases the underlying device or file.
	Close() error
}

// TransportOpener opens transports by port identifier.
type TransportOpener interface {
	// Open connects to settings.Port at settings.Baud.
	// Returns domain.ErrUnsupportedPort when the identifier is not handled.
	Open(ctx context.Context, settings domain.SerialSettings) (Transport, error)
}

// PortEnumerator lists selectable ports.
type PortEnumerator interface {
	// ListPorts returns the ports currently available.
	ListPorts(ctx context.Context) ([]domain.PortInfo, error)
}
