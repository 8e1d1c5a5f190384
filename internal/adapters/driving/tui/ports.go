// Package tui provides the interactive plotter.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/serplot/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI uses.
type Ports struct {
	// Acquisition runs the read loop and provides snapshots.
	Acquisition driving.AcquisitionService

	// Capture records sessions. Optional.
	Capture driving.CaptureService

	// Ports lists selectable ports. Optional.
	Ports driving.PortService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Acquisition == nil {
		return ErrMissingAcquisitionService
	}
	return nil
}
