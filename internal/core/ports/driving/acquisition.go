package driving

import (
	"context"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

// AcquisitionService reads from a port and feeds the series store.
type AcquisitionService interface {
	// Start opens the port and launches the read loop.
	// Returns domain.ErrAlreadyRunning if a loop is active.
	Start(ctx context.Context, settings domain.SerialSettings) error

	// Stop cancels the read loop and waits for it to exit.
	// Returns domain.ErrNotRunning when idle.
	Stop() error

	// Running reports whether the read loop is active.
	Running() bool

	// Snapshot returns a consistent copy of every series.
	Snapshot() domain.Snapshot

	// Status returns loop counters and the last error.
	Status() domain.AcquisitionStatus

	// Clear drops every point and rewinds the shared position.
	Clear()
}
